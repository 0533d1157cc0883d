// Package reply maps pipeline outcomes to the fixed set of user-facing
// Arabic messages. Every template is enumerated here; nothing else in the
// codebase builds user-visible text.
package reply

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	genericError       = "عذراً، حدث خطأ فني. يرجى المحاولة لاحقاً أو إبلاغ المسؤول."
	couldNotUnderstand = "عذراً، لم أتمكن من فهم طلبك بوضوح. هل يمكنك إعادة الصياغة أو تقديم تفاصيل أكثر؟"
	branchNotFound     = "عذراً، لم أتعرف على اسم الفرع '%s'. الفروع المعروفة هي: %s"
	missingFields      = "لم أتمكن من تحديد %s بوضوح. يرجى ذكرها في طلبك."
	missingQueryBranch = "لم أتمكن من تحديد الفرع للاستعلام عنه بوضوح."
	transcriptFailed   = "عذراً، لم أتمكن من فهم الرسالة الصوتية. يرجى المحاولة مرة أخرى بصوت أوضح."
	serviceDown        = "عذراً، هناك مشكلة في الوصول إلى الخدمات الخارجية. يرجى المحاولة لاحقاً."
	transferConfirmed  = "✅ تم تسجيل تحويل %s %s من فرع %s إلى فرع %s بنجاح."
	queryResult        = "إجمالي التحويلات من فرع %s لهذا اليوم هو: %s %s."
	queryNoResult      = "لم يتم العثور على أي تحويلات مسجلة من فرع %s لهذا اليوم."
	selfTransfer       = "لا يمكن التحويل من فرع إلى نفسه."
)

// Field labels used in the missing-fields template.
const (
	FieldAmount            = "المبلغ"
	FieldSourceBranch      = "فرع المصدر"
	FieldDestinationBranch = "فرع الوجهة"
)

func GenericError() string { return genericError }

func CouldNotUnderstand() string { return couldNotUnderstand }

func TranscriptionFailed() string { return transcriptFailed }

func ServiceDown() string { return serviceDown }

func SelfTransferRejected() string { return selfTransfer }

func MissingQueryBranch() string { return missingQueryBranch }

// BranchNotFound names the offending raw value and the full canonical list.
func BranchNotFound(raw string, known []string) string {
	return fmt.Sprintf(branchNotFound, raw, strings.Join(known, "، "))
}

// MissingTransferFields lists the fields that were absent or invalid.
func MissingTransferFields(fields []string) string {
	return fmt.Sprintf(missingFields, strings.Join(fields, " و"))
}

func TransferConfirmed(amount float64, currency, source, destination string) string {
	return fmt.Sprintf(transferConfirmed, formatAmount(amount), currency, source, destination)
}

func QueryResult(branch string, amount float64, currency string) string {
	return fmt.Sprintf(queryResult, branch, formatAmount(amount), currency)
}

func QueryNoResult(branch string) string {
	return fmt.Sprintf(queryNoResult, branch)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
