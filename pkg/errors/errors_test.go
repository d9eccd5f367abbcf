package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(CodeDependency, cause, "stock ledger read")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to satisfy errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	inner := New(CodeNoBomConfigured, "no bill of materials for Table")
	wrapped := fmt.Errorf("validating order: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNoBomConfigured {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeInsufficientComponents, "flour short by 6")
	if !HasCode(err, CodeInsufficientComponents) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNoBomConfigured) {
		t.Fatal("unexpected HasCode match")
	}
	if HasCode(nil, CodeInternal) {
		t.Fatal("nil error must not match")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta != metadataByCode[CodeInternal] {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeJobCreationFailed, errors.New("insert failed"), "create job for Chair")
	d := Dump(err)
	if d.Code != CodeJobCreationFailed {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}
