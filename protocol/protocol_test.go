package protocol

import (
	"testing"
)

func TestValidateFieldName(t *testing.T) {
	valid := []string{
		"MESSAGE",
		"PRIORITY",
		"CODE_LINE",
		"_PID",
		"__CURSOR",
		"A",
		"_",
		"FIELD9",
		"A1_B2",
	}
	for _, name := range valid {
		if err := ValidateFieldName(name); err != nil {
			t.Errorf("expected %q to be valid, got: %v", name, err)
		}
	}

	invalid := []string{
		"message",
		"Message",
		"FIELD-NAME",
		"FIELD NAME",
		"FIELD=NAME",
		"FIELD\n",
		"FÏELD",
		"9FIELD",
		"0",
	}
	for _, name := range invalid {
		err := ValidateFieldName(name)
		if err == nil {
			t.Errorf("expected %q to be invalid", name)
			continue
		}
		if _, ok := err.(InvalidFieldNameError); !ok {
			t.Errorf("expected InvalidFieldNameError for %q, got: %v", name, err)
		}
	}

	if err := ValidateFieldName(""); err != ErrEmptyFieldName {
		t.Errorf("expected ErrEmptyFieldName, got: %v", err)
	}
}
