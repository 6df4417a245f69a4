package resolve_reschedule_request

// Action решение администратора
type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// Request модель решения по запросу на перенос
type Request struct {
	RequestID int64
	Action    Action
	Note      *string
}
