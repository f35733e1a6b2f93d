package deps

import "testing"

func TestSplitRequirement(t *testing.T) {
	tests := []struct {
		line   string
		want   DependencyRecord
		wantOK bool
	}{
		{"requests==2.31.0", DependencyRecord{Name: "requests", Constraint: "==2.31.0"}, true},
		{"pydantic>=2.0.0", DependencyRecord{Name: "pydantic", Constraint: ">=2.0.0"}, true},
		{"Django <= 4.2", DependencyRecord{Name: "Django", Constraint: "<=4.2"}, true},
		{"attrs~=23.1", DependencyRecord{Name: "attrs", Constraint: "~=23.1"}, true},
		{"six!=1.0", DependencyRecord{Name: "six", Constraint: "!=1.0"}, true},
		{"urllib3>1.0,<3", DependencyRecord{Name: "urllib3", Constraint: ">1.0,<3"}, true},
		{"pkg===1.0", DependencyRecord{Name: "pkg", Constraint: "===1.0"}, true},
		{"flask", DependencyRecord{Name: "flask"}, true},
		{"uvicorn[standard]>=0.20", DependencyRecord{Name: "uvicorn", Constraint: ">=0.20"}, true},
		{"typing-extensions; python_version<'3.8'", DependencyRecord{Name: "typing-extensions"}, true},
		{"zope.interface", DependencyRecord{Name: "zope.interface"}, true},
		{"", DependencyRecord{}, false},
		{"   ", DependencyRecord{}, false},
		{"==1.0", DependencyRecord{}, false},
		{"-e .", DependencyRecord{}, false},
		{"na me==1", DependencyRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := SplitRequirement(tt.line)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SplitRequirement(%q) = (%+v, %v), want (%+v, %v)", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLeadingOperator(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"==1.0", "==", true},
		{"===1.0", "===", true},
		{">=1.0", ">=", true},
		{">1.0", ">", true},
		{"^1.0", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := LeadingOperator(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LeadingOperator(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDependencyRecordKey(t *testing.T) {
	r := DependencyRecord{Name: "  Django_REST ", Constraint: ">=3"}
	if got := r.Key(); got != "django_rest" {
		t.Errorf("Key() = %q, want %q", got, "django_rest")
	}
	if got := (DependencyRecord{Name: "requests", Constraint: "==2.0"}).String(); got != "requests==2.0" {
		t.Errorf("String() = %q", got)
	}
}
