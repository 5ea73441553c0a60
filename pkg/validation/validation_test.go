package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("learner@example.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "nope", "a@b", "spaces in@mail.com"} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("accepted invalid email %q", bad)
		}
	}
}

func TestValidateEntityID(t *testing.T) {
	if err := ValidateEntityID("workshop_42-a"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "has space", "slash/id", string(make([]byte, 101))} {
		if err := ValidateEntityID(bad); err == nil {
			t.Errorf("accepted invalid id %q", bad)
		}
	}
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"video/mp4", "video/webm"}

	if err := ValidateContentType("video/mp4", allowed); err != nil {
		t.Errorf("allowed type rejected: %v", err)
	}
	if err := ValidateContentType(`video/mp4; codecs="avc1"`, allowed); err != nil {
		t.Errorf("parameters should be stripped before matching: %v", err)
	}
	if err := ValidateContentType("VIDEO/MP4", allowed); err != nil {
		t.Errorf("matching should be case-insensitive: %v", err)
	}
	if err := ValidateContentType("application/x-executable", allowed); err == nil {
		t.Error("disallowed type accepted")
	}
	if err := ValidateContentType("", allowed); err == nil {
		t.Error("empty type accepted")
	}
}
