package planapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Mensaje genérico para el usuario cuando no hay detail utilizable.
const GenericMessage = "An unknown error occurred"

// ServiceError: el servicio respondió, pero con non-2xx (o un 2xx que no es JSON).
type ServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planning service status %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("planning service status %d: %s", e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// TransportError: no hubo respuesta (DNS, conexión rechazada, timeout, cancelación).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("planning service unreachable (%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage convierte cualquier error remoto en el texto que ve el usuario.
// El error crudo solo va a los logs.
func UserMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericMessage
}

// detailMessage extrae "detail" de un body de error. Acepta string o la lista
// de errores de validación estilo FastAPI ([{"loc": [...], "msg": "..."}]).
func detailMessage(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return GenericMessage
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return GenericMessage
		}
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return GenericMessage
}
