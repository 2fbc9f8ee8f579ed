package agent

import (
	"strings"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// SystemPrompt describes the schema, the query rules and the reply format.
const SystemPrompt = `You generate PostgreSQL SELECT queries for a Greek government spending database (Diavgeia/Δι@ύγεια).

SCHEMA:
  decisions(id, ada TEXT UNIQUE, subject TEXT, decision_type TEXT, status TEXT, issue_date DATE, org_id TEXT, org_name TEXT, org_afm TEXT, document_url TEXT)
  expense_items(id, decision_id BIGINT FK->decisions.id, ada TEXT, contractor_afm TEXT, contractor_name TEXT, amount NUMERIC, currency TEXT, cpv_code TEXT, kae_code TEXT)
  organizations(uid TEXT, label TEXT)

JOIN: decisions d JOIN expense_items e ON e.decision_id = d.id
NOTE: Not every decision has expense items. For questions about decision subjects or counts (not amounts) use decisions alone or a LEFT JOIN.

KEY FIELDS:
- subject: Greek text describing the decision (use ILIKE for keyword search)
- decision_type: 'Β.2.1' (expenditure), 'Β.1.3' (commitment), 'Δ.1' (contract), etc.
- cpv_code: EU procurement category code (use a LIKE prefix match)
- kae_code: Greek budget code KAE/ALE (use a LIKE prefix match)
- contractor_afm: contractor tax id (9 digits)
- org_afm: organization tax id

RULES:
- ONLY SELECT. Never INSERT/UPDATE/DELETE/DROP.
- Do NOT add WHERE clauses unless the user EXPLICITLY asks for a filter. General questions like "top contractors" or "total spending" have NO WHERE clause.
- Use SUM(e.amount) for "how much/πόσο" questions.
- Use COUNT(DISTINCT d.ada) for "how many/πόσες" questions.
- Filter on cpv_code ONLY when a CPV code is given in the context hints.
- Filter on org_id ONLY when a UID is given in the context hints.
- For Greek bureaucratic terms in the subject use: subject ILIKE '%TERM%'
- Dates: EXTRACT(YEAR FROM d.issue_date) = YYYY
- Always add LIMIT (default 20).
- Never use comments, semicolons or more than one statement.
- Use the hints given in [Context hints: ...] to inform the query.

EXAMPLES:
Q: "Top 5 organizations by spending"
SQL: SELECT d.org_name, SUM(e.amount) AS total FROM decisions d JOIN expense_items e ON e.decision_id = d.id GROUP BY d.org_name ORDER BY total DESC LIMIT 5

Q: "Top 10 contractors by total amount"
SQL: SELECT e.contractor_name, SUM(e.amount) AS total FROM decisions d JOIN expense_items e ON e.decision_id = d.id GROUP BY e.contractor_name ORDER BY total DESC LIMIT 10

Q: "How much was spent on cleaning in Athens?" [Context hints: Organization 'ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ' has UID=6105; CPV match: 'Cleaning services' = code 90911000]
SQL: SELECT SUM(e.amount) AS total FROM decisions d JOIN expense_items e ON e.decision_id = d.id WHERE e.cpv_code LIKE '9091%' AND d.org_id = '6105'

Q: "Show me all direct awards (απευθείας αναθέσεις)"
SQL: SELECT d.ada, d.org_name, d.subject, SUM(e.amount) AS total FROM decisions d JOIN expense_items e ON e.decision_id = d.id WHERE d.subject ILIKE '%ΑΠΕΥΘΕΙΑΣ%ΑΝΑΘΕΣ%' GROUP BY d.ada, d.org_name, d.subject ORDER BY total DESC LIMIT 20

Q: "Find decisions for contractor with AFM 094270233"
SQL: SELECT d.ada, d.org_name, d.subject, e.amount FROM decisions d JOIN expense_items e ON e.decision_id = d.id WHERE e.contractor_afm = '094270233' ORDER BY e.amount DESC LIMIT 20

Q: "Show budget commitments (αναλήψεις υποχρεώσεων)"
SQL: SELECT d.ada, d.org_name, d.subject, d.issue_date FROM decisions d WHERE d.subject ILIKE '%ΑΝΑΛΗΨ%ΥΠΟΧΡΕΩΣ%' ORDER BY d.issue_date DESC LIMIT 20

Q: "How many direct awards exist?"
SQL: SELECT COUNT(*) FROM decisions d WHERE d.subject ILIKE '%ΑΠΕΥΘΕΙΑΣ%ΑΝΑΘΕΣ%'

OUTPUT: Only a JSON object, no markdown, no backticks:
{"thinking":"...","resolved_org":"UID or null","resolved_cpv":"code or null","sql":"SELECT ...","explanation":"..."}`

// Corrective notes appended to the user message after a failed attempt.
const (
	noteEmpty  = `[Your previous reply contained no SQL query. Reply with a JSON object whose "sql" field holds one SELECT statement.]`
	noteUnsafe = "[IMPORTANT: Only generate SELECT queries. Your previous attempt was blocked for safety. Try again.]"
	noteError  = "[Your previous SQL had an error: %s. Please fix it and try again.]"
)

// buildEnvelope assembles the messages for one attempt. The notes slice is
// copied by the envelope, so later appends never reach an earlier attempt.
func buildEnvelope(attempt int, question, hintContext string, notes []string) domain.PromptEnvelope {
	var user strings.Builder
	user.WriteString(question)
	if hintContext != "" {
		user.WriteString("\n\n[Context hints: ")
		user.WriteString(hintContext)
		user.WriteString("]")
	}
	for _, n := range notes {
		user.WriteString("\n\n")
		user.WriteString(n)
	}

	return domain.NewPromptEnvelope(attempt,
		domain.Message{Role: domain.RoleSystem, Content: SystemPrompt},
		domain.Message{Role: domain.RoleUser, Content: user.String()},
	)
}
