package mdw

import (
	"bytes"
	"errors"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := bytes.Repeat([]byte{'a', 0x01}, 40)
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsText(t *testing.T) {
	data := []byte("- h1: Title\n- p: \"tabs\tand\r\nnewlines\"\n")
	if err := ValidateInput(data); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("ok żółw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateText("a\x00b"); !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	e := renderError(t, doc(NewCodeBlock("", "a\x00b")), DefaultOptions(), ErrBinaryInput)
	if e.Category != CategoryContent || e.Path != "Document/CodeBlock[0]" {
		t.Fatalf("unexpected error context: %+v", e)
	}
}
