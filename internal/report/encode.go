package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

func writeMsgpack(w io.Writer, r Report) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode msgpack report: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a report written in the msgpack format.
func ReadMsgpack(rd io.Reader) (Report, error) {
	var r Report
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("decode msgpack report: %w", err)
	}
	return r, nil
}
