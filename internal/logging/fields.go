// Package logging provides a fluent structured-field builder over
// logrus, shared by every workflow and adapter so log lines carry
// consistent keys regardless of which component emits them.
package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Fields is a structured set of logging key/value pairs.
type Fields map[string]interface{}

func NewFields() Fields { return Fields{} }

func (f Fields) Component(name string) Fields { f["component"] = name; return f }
func (f Fields) Operation(name string) Fields { f["operation"] = name; return f }

func (f Fields) Resource(resourceType, name string) Fields {
	f["resource_type"] = resourceType
	if name != "" {
		f["resource_name"] = name
	}
	return f
}

func (f Fields) Duration(d time.Duration) Fields {
	f["duration_ms"] = d.Milliseconds()
	return f
}

func (f Fields) Error(err error) Fields {
	if err != nil {
		f["error"] = err.Error()
	}
	return f
}

func (f Fields) UserID(id string) Fields {
	if id != "" {
		f["user_id"] = id
	}
	return f
}

func (f Fields) RequestID(id string) Fields {
	if id != "" {
		f["request_id"] = id
	}
	return f
}

func (f Fields) TraceID(id string) Fields {
	if id != "" {
		f["trace_id"] = id
	}
	return f
}

func (f Fields) Method(method string) Fields { f["method"] = method; return f }
func (f Fields) URL(url string) Fields       { f["url"] = url; return f }
func (f Fields) StatusCode(code int) Fields  { f["status_code"] = code; return f }
func (f Fields) Count(n int) Fields          { f["count"] = n; return f }

func (f Fields) Size(bytes int64) Fields {
	f["size_bytes"] = bytes
	return f
}

func (f Fields) Version(v string) Fields { f["version"] = v; return f }

func (f Fields) Custom(key string, value interface{}) Fields {
	f[key] = value
	return f
}

// ToLogrus adapts Fields to logrus.Fields for use with logrus.WithFields.
func (f Fields) ToLogrus() logrus.Fields { return logrus.Fields(f) }

// Domain-specific helpers used across repositories, HTTP handlers and
// workflow packages, so call sites don't repeat the same four Custom
// calls at every log line.

func DatabaseFields(operation, table string) Fields {
	return NewFields().Component("database").Operation(operation).Resource("table", table)
}

func HTTPFields(method, url string, statusCode int) Fields {
	return NewFields().Component("http").Method(method).URL(url).StatusCode(statusCode)
}

func TokenFields(operation string) Fields {
	return NewFields().Component("token").Operation(operation)
}

func AdmissionFields(operation, registrationID string) Fields {
	return NewFields().Component("admission").Operation(operation).Resource("registration", registrationID)
}

func OCRFields(operation, scanID string) Fields {
	return NewFields().Component("ocr").Operation(operation).Resource("scan", scanID)
}

func AuditFields(entityType, entityID, action string) Fields {
	return NewFields().Component("audit").Operation(action).Resource(entityType, entityID)
}

func SecurityFields(operation, subject string) Fields {
	return NewFields().Component("security").Operation(operation).Custom("subject", subject)
}

func PerformanceFields(operation string, d time.Duration, success bool) Fields {
	return NewFields().Component("performance").Operation(operation).Duration(d).Custom("success", success)
}
