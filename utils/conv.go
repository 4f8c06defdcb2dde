package utils

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/mogaika/scenenode/config"
)

// BytesToString decodes a nil terminated string stored in the configured encoding.
func BytesToString(bs []byte) (string, error) {
	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[:BytesStringLength(bs)])
	if err != nil {
		return "", errors.Wrapf(err, "Failed to decode string")
	}
	return string(s), nil
}

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}

// StringToBytesBuffer encodes s into a zero padded buffer of exactly bufSize bytes.
func StringToBytesBuffer(s string, bufSize int, nilTerminate bool) ([]byte, error) {
	bs, err := StringToBytes(s, nilTerminate)
	if err != nil {
		return nil, err
	}
	if len(bs) > bufSize {
		return nil, errors.Errorf("String %q does not fit into %d bytes", s, bufSize)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	return r, nil
}

func StringToBytes(s string, nilTerminate bool) ([]byte, error) {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode string %q using %s", s, config.GetEncoding())
	}
	if nilTerminate {
		bs = append(bs, 0)
	}
	return bs, nil
}
