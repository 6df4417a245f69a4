package resolve_reschedule_request

import (
	resolveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/resolve_reschedule_request"
)

// ResolveRequest HTTP request model
type ResolveRequest struct {
	Action string  `json:"action"` // approve | deny
	Note   *string `json:"note,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ResolveRequest) ToUseCaseRequest(requestID int64) *resolveRequest.Request {
	return &resolveRequest.Request{
		RequestID: requestID,
		Action:    resolveRequest.Action(r.Action),
		Note:      r.Note,
	}
}
