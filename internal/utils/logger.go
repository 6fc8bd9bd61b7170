package utils

import (
	"log"
	"strings"
)

// LogEvent writes one structured line tagged with the owning module, the
// action and the request id. Callers keep the message to a short summary;
// payload bodies never go through here.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}
