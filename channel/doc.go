// Package channel provides a bounded, blocking byte pipe between exactly one
// producer goroutine and one consumer goroutine.
//
// New creates a fixed-capacity ring buffer and returns its two endpoints.
// The Producer blocks while the ring is full, the Consumer while it is empty,
// so memory use never exceeds the capacity no matter how far the two sides
// drift apart. Bytes come out in exactly the order they went in.
//
// # Shutdown
//
// Either side may close, cleanly or with an error:
//
//   - Producer.Close flushes, marks the stream finished and waits until the
//     consumer has closed too. The consumer sees io.EOF once it has drained
//     the ring.
//   - Producer.CloseWithError flushes like Close, but once the consumer has
//     drained the ring its next Read fails with a *errs.ChannelFailure
//     carrying the error instead of returning io.EOF.
//   - Consumer.Close and Consumer.CloseWithError never wait. A blocked or
//     later Producer call fails with errs.ErrChannelClosed, or with a
//     *errs.ChannelFailure when an error was given.
//
// There are no timeouts. A caller that needs a deadline closes the consumer
// from a watchdog goroutine, or calls Interrupt to fail a single blocked
// call with errs.ErrInterruptedWait.
//
// # Example
//
//	producer, consumer, _ := channel.New(4096)
//	go func() {
//	    defer producer.Close()
//	    producer.Write(payload)
//	}()
//	data, err := io.ReadAll(consumer)
//	consumer.Close()
//
// Using one endpoint from several goroutines at once is not supported.
package channel
