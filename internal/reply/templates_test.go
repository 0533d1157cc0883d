package reply

import (
	"strings"
	"testing"
)

func TestTransferConfirmed(t *testing.T) {
	got := TransferConfirmed(500, "JOD", "السلالم", "المدينة")
	want := "✅ تم تسجيل تحويل 500 JOD من فرع السلالم إلى فرع المدينة بنجاح."
	if got != want {
		t.Errorf("TransferConfirmed = %q, want %q", got, want)
	}
}

func TestTransferConfirmed_FractionalAmount(t *testing.T) {
	got := TransferConfirmed(1250.5, "JOD", "الصويفية", "المركز الرئيسي")
	if !strings.Contains(got, "1250.5 JOD") {
		t.Errorf("expected amount 1250.5 without trailing zeros, got %q", got)
	}
	if strings.Contains(got, "1250.500000") {
		t.Errorf("amount must not carry printf float padding: %q", got)
	}
}

func TestQueryResult(t *testing.T) {
	got := QueryResult("السلالم", 750, "JOD")
	want := "إجمالي التحويلات من فرع السلالم لهذا اليوم هو: 750 JOD."
	if got != want {
		t.Errorf("QueryResult = %q, want %q", got, want)
	}
}

func TestQueryNoResult(t *testing.T) {
	got := QueryNoResult("المدينة")
	if !strings.Contains(got, "المدينة") {
		t.Errorf("expected branch name in reply, got %q", got)
	}
	if !strings.Contains(got, "لم يتم العثور") {
		t.Errorf("expected no-result phrasing, got %q", got)
	}
}

func TestBranchNotFound(t *testing.T) {
	known := []string{"السلالم", "المدينة", "الصويفية"}
	got := BranchNotFound("العبدلي", known)

	if !strings.Contains(got, "'العبدلي'") {
		t.Errorf("expected quoted raw value, got %q", got)
	}
	if !strings.Contains(got, "السلالم، المدينة، الصويفية") {
		t.Errorf("expected known branches joined with Arabic comma, got %q", got)
	}
}

func TestMissingTransferFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{
			"single field",
			[]string{FieldAmount},
			"لم أتمكن من تحديد المبلغ بوضوح. يرجى ذكرها في طلبك.",
		},
		{
			"two fields joined with waw",
			[]string{FieldAmount, FieldSourceBranch},
			"لم أتمكن من تحديد المبلغ وفرع المصدر بوضوح. يرجى ذكرها في طلبك.",
		},
		{
			"all fields",
			[]string{FieldAmount, FieldSourceBranch, FieldDestinationBranch},
			"لم أتمكن من تحديد المبلغ وفرع المصدر وفرع الوجهة بوضوح. يرجى ذكرها في طلبك.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MissingTransferFields(tt.fields); got != tt.want {
				t.Errorf("MissingTransferFields = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixedTemplatesAreStable(t *testing.T) {
	// These strings are part of the bot's contract with its users; any
	// change here must be deliberate.
	fixed := map[string]string{
		"generic error":       GenericError(),
		"not understood":      CouldNotUnderstand(),
		"transcription":       TranscriptionFailed(),
		"service down":        ServiceDown(),
		"self transfer":       SelfTransferRejected(),
		"missing query field": MissingQueryBranch(),
	}
	for name, msg := range fixed {
		if strings.TrimSpace(msg) == "" {
			t.Errorf("%s template is empty", name)
		}
		if strings.Contains(msg, "%") {
			t.Errorf("%s template leaked a format verb: %q", name, msg)
		}
	}
}
