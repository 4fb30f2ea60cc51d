package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Reassignment() Reassignment
		Downstream() Downstream
		Publisher() Publisher
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Reassignment interface {
		Outcome(outcome string)
		Shipment(result string)
		GraceWait(duration time.Duration)
	}

	Downstream interface {
		ObserveCall(operation string, duration time.Duration)
		CallFailed(operation string, reason string)
		Retry(operation string)
	}

	Publisher interface {
		EventPublished(topic string)
		EventFailed(topic string, reason string)
	}
)
