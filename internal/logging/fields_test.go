package logging

import (
	"errors"
	"testing"
	"time"
)

func TestNewFields(t *testing.T) {
	fields := NewFields()
	if len(fields) != 0 {
		t.Errorf("NewFields() should be empty, got %d fields", len(fields))
	}
}

func TestStandardFields_Component(t *testing.T) {
	fields := NewFields().Component("admission")
	if fields["component"] != "admission" {
		t.Errorf("Component() = %v", fields["component"])
	}
}

func TestStandardFields_Resource(t *testing.T) {
	fields := NewFields().Resource("attempt", "attempt-1")
	if fields["resource_type"] != "attempt" || fields["resource_name"] != "attempt-1" {
		t.Errorf("Resource() = %v", fields)
	}
}

func TestStandardFields_ResourceWithoutName(t *testing.T) {
	fields := NewFields().Resource("attempt", "")
	if _, exists := fields["resource_name"]; exists {
		t.Error("Resource() should not set resource_name when empty")
	}
}

func TestStandardFields_Duration(t *testing.T) {
	fields := NewFields().Duration(150 * time.Millisecond)
	if fields["duration_ms"] != int64(150) {
		t.Errorf("Duration() = %v", fields["duration_ms"])
	}
}

func TestStandardFields_ErrorNil(t *testing.T) {
	fields := NewFields().Error(nil)
	if _, exists := fields["error"]; exists {
		t.Error("Error(nil) should not set error field")
	}
}

func TestStandardFields_ErrorSet(t *testing.T) {
	fields := NewFields().Error(errors.New("boom"))
	if fields["error"] != "boom" {
		t.Errorf("Error() = %v", fields["error"])
	}
}

func TestStandardFields_ChainedCalls(t *testing.T) {
	fields := NewFields().
		Component("admission").
		Operation("approve").
		Resource("registration", "reg-1").
		Duration(100 * time.Millisecond).
		Count(1)

	expected := map[string]interface{}{
		"component":     "admission",
		"operation":     "approve",
		"resource_type": "registration",
		"resource_name": "reg-1",
		"duration_ms":   int64(100),
		"count":         1,
	}
	for key, want := range expected {
		if fields[key] != want {
			t.Errorf("%s = %v, want %v", key, fields[key], want)
		}
	}
}

func TestStandardFields_ToLogrus(t *testing.T) {
	fields := NewFields().Component("test")
	logrusFields := fields.ToLogrus()
	if logrusFields["component"] != "test" {
		t.Errorf("ToLogrus() component = %v", logrusFields["component"])
	}
}

func TestDatabaseFields(t *testing.T) {
	fields := DatabaseFields("insert", "attempts")
	if fields["component"] != "database" || fields["resource_type"] != "table" || fields["resource_name"] != "attempts" {
		t.Errorf("DatabaseFields() = %v", fields)
	}
}

func TestHTTPFields(t *testing.T) {
	fields := HTTPFields("POST", "/api/v1/registrations", 201)
	if fields["method"] != "POST" || fields["status_code"] != 201 {
		t.Errorf("HTTPFields() = %v", fields)
	}
}

func TestAdmissionFields(t *testing.T) {
	fields := AdmissionFields("approve", "reg-123")
	if fields["component"] != "admission" || fields["resource_name"] != "reg-123" {
		t.Errorf("AdmissionFields() = %v", fields)
	}
}

func TestOCRFields(t *testing.T) {
	fields := OCRFields("decode_qr", "scan-1")
	if fields["component"] != "ocr" || fields["resource_type"] != "scan" {
		t.Errorf("OCRFields() = %v", fields)
	}
}

func TestPerformanceFields(t *testing.T) {
	fields := PerformanceFields("score_attempt", 250*time.Millisecond, true)
	expected := map[string]interface{}{
		"component":   "performance",
		"operation":   "score_attempt",
		"duration_ms": int64(250),
		"success":     true,
	}
	for key, want := range expected {
		if fields[key] != want {
			t.Errorf("%s = %v, want %v", key, fields[key], want)
		}
	}
}
