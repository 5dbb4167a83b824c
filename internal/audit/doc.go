// Package audit records what each musings run published or checked.
//
// Entries are JSON Lines appended to <src>/.musings/audit.jsonl, one per
// build, add or validate. Each carries a run id from google/uuid so lines
// written by the same invocation can be grouped, plus the user@host that
// ran it and the affected post ids. Post bodies and passphrases are never
// logged.
//
// Logging is best-effort. If the file cannot be written the operation
// continues without error.
//
//	log := audit.NewLogger(cfg.AuditLogPath())
//	entry := log.New(audit.OpBuild)
//	entry.IDs = written
//	log.Log(entry)
package audit
