package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/vbio/vbe"
)

// valueTypes lists the --type choices shared by encode and decode.
var valueTypes = []string{"int16", "int32", "int64", "fixed32", "fixed64", "utf"}

func checkValueType(typ string) error {
	if slices.Contains(valueTypes, typ) {
		return nil
	}

	return fmt.Errorf("unknown type %q, want one of %s", typ, strings.Join(valueTypes, ", "))
}

// encodeValue parses arg as typ and appends its encoding to w.
func encodeValue(w *vbe.Writer, typ, arg string) error {
	switch typ {
	case "utf":
		w.WriteUTF(arg)
		return nil
	case "int16":
		v, err := strconv.ParseInt(arg, 0, 16)
		if err != nil {
			return err
		}
		w.WriteInt16(int16(v))
	case "int32", "fixed32":
		v, err := strconv.ParseInt(arg, 0, 32)
		if err != nil {
			return err
		}
		if typ == "fixed32" {
			w.WriteFixedInt32(int32(v))
		} else {
			w.WriteInt32(int32(v))
		}
	case "int64", "fixed64":
		v, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return err
		}
		if typ == "fixed64" {
			w.WriteFixedInt64(v)
		} else {
			w.WriteInt64(v)
		}
	default:
		return checkValueType(typ)
	}

	return nil
}

// decodeValue reads one typ value from r and formats it for printing.
func decodeValue(r vbe.Reader, typ string) (string, error) {
	switch typ {
	case "int16":
		v, err := r.ReadInt16()
		return strconv.FormatInt(int64(v), 10), err
	case "int32":
		v, err := r.ReadInt32()
		return strconv.FormatInt(int64(v), 10), err
	case "int64":
		v, err := r.ReadInt64()
		return strconv.FormatInt(v, 10), err
	case "fixed32":
		v, err := r.ReadFixedInt32()
		return strconv.FormatInt(int64(v), 10), err
	case "fixed64":
		v, err := r.ReadFixedInt64()
		return strconv.FormatInt(v, 10), err
	case "utf":
		s, err := r.ReadUTF()
		return strconv.Quote(s), err
	default:
		return "", checkValueType(typ)
	}
}
