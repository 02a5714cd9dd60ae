package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"first.last@sub.example.org",
		"user+tag@example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@localhost",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"\t\nclean\n", "clean"},
		{"untouched", "untouched"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Name  string `validate:"required,min=2"`
		Email string `validate:"required,email"`
	}

	v := NewValidator()

	if err := v.ValidateStruct(form{Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Errorf("expected valid struct to pass, got: %v", err)
	}

	err := v.ValidateStruct(form{Name: "A", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	formatted := FormatValidationErrors(err)
	if formatted["name"] == "" {
		t.Error("expected an error for name")
	}
	if formatted["email"] != "Invalid email format" {
		t.Errorf("unexpected email error: %q", formatted["email"])
	}
}
