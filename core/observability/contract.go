package observability

const (
	AttrTraceID        = "trace_id"
	AttrSpanID         = "span_id"
	AttrQuestionID     = "question.id"
	AttrAttempt        = "agent.attempt"
	AttrOutcome        = "agent.outcome"
	AttrBackend        = "llm.backend"
	AttrModel          = "llm.model"
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrErrorType      = "error.type"
)

// Attempt outcomes recorded by the agent.
const (
	OutcomeOK             = "ok"
	OutcomeEmpty          = "empty"
	OutcomeUnsafe         = "unsafe"
	OutcomeExecutionError = "execution_error"
	OutcomeGatewayError   = "gateway_error"
)
