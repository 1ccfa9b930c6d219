package messaging

import "fmt"

type ErrorKind string

const (
	KindUnregistered ErrorKind = "unregistered"
	KindSandboxJoin  ErrorKind = "sandbox_join_required"
	KindReengagement ErrorKind = "reengagement"
	KindAPI          ErrorKind = "api_error"
	KindTransport    ErrorKind = "transport"
)

// DeliveryError — ошибка провайдера с сообщением для пользователя (pt-BR).
type DeliveryError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
