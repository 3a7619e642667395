package interview

import "testing"

func TestExtractCandidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		resume string
		want   string
	}{
		{
			name:   "name on first line",
			resume: "Jane Doe\nSenior Software Engineer with ten years of experience building things\njane@example.com",
			want:   "Jane Doe",
		},
		{
			name:   "skips long lines",
			resume: "An extremely long headline that could not possibly be a person's name because of its length\nJohn Smith",
			want:   "John Smith",
		},
		{
			name:   "empty resume",
			resume: "",
			want:   "Candidate",
		},
		{
			name:   "no plausible name",
			resume: "a\nb\nc",
			want:   "Candidate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCandidateName(tt.resume); got != tt.want {
				t.Fatalf("ExtractCandidateName = %q, want %q", got, tt.want)
			}
		})
	}
}
