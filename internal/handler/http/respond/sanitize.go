package respond

import (
	"regexp"
)

var (
	// order matters: the Anthropic pattern must run before the OpenAI one
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// does not match already masked strings (containing *)
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{10,}`)
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`)
	braveKeyPattern  = regexp.MustCompile(`BSA[0-9A-Za-z_-]{20,}`)

	// key=... in query strings echoed by SDK errors
	queryKeyPattern = regexp.MustCompile(`([?&](?:key|api_key|token)=)[^&\s"]+`)

	// password inside a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError returns err's message with API keys and DSN passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks API keys and DSN passwords in msg.
func SanitizeString(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = googleKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = braveKeyPattern.ReplaceAllString(msg, "BSA****")
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
