package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

func jsonEnvelope(v any) Envelope {
	text, err := RenderJSON(v)
	if err != nil {
		return TextEnvelope("Error: failed to render result: " + err.Error())
	}
	return TextEnvelope(text)
}

// RenderJSON pretty-prints v with two-space indentation and without HTML
// escaping. Raw JSON keeps its key order but is re-serialised, so numbers
// and string escapes come out in canonical form (1.0 becomes 1, "\u00e9" becomes "é").
func RenderJSON(v any) (string, error) {
	var buf bytes.Buffer
	if raw, ok := v.(json.RawMessage); ok {
		if err := reindent(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func reindent(buf *bytes.Buffer, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := writeValue(buf, dec, 0); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return fmt.Errorf("unexpected data after top-level value")
		}
		return err
	}
	return nil
}

func writeValue(buf *bytes.Buffer, dec *json.Decoder, depth int) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		return writeContainer(buf, dec, v, depth)
	case string:
		writeString(buf, v)
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil && !math.IsInf(f, 0) {
			return err
		}
		if math.IsInf(f, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(FormatNumber(f))
		}
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func writeContainer(buf *bytes.Buffer, dec *json.Decoder, open json.Delim, depth int) error {
	closing := byte(']')
	if open == '{' {
		closing = '}'
	}
	buf.WriteByte(byte(open))

	n := 0
	for dec.More() {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		newline(buf, depth+1)

		if open == '{' {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("expected object key, got %v", tok)
			}
			writeString(buf, key)
			buf.WriteString(": ")
		}
		if err := writeValue(buf, dec, depth+1); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if n > 0 {
		newline(buf, depth)
	}
	buf.WriteByte(closing)
	return nil
}

func newline(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
}

// writeString quotes s, escaping only quotes, backslashes and control characters.
func writeString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xF])
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
