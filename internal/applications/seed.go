package applications

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// SeedData returns the demo collection served by the mock source and the mock
// server. Record 11 carries a corrupt CV payload and record 12 has none.
func SeedData() []Application {
	type seed struct {
		name, course, location, date string
		status                       Status
		modules                      []Module
	}
	seeds := []seed{
		{"Alice Moyo", "DSA101", "Johannesburg", "2025-07-10", StatusPending, []Module{{101, "AI Basics", 85}, {102, "Data Wrangling", 90}}},
		{"Brian Nkosi", "DSA102", "Cape Town", "2025-07-11", StatusApproved, []Module{{201, "Statistics", 78}, {202, "Machine Learning", 82}}},
		{"Clara Dlamini", "DSA103", "", "2025-07-12", StatusRejected, []Module{{301, "Big Data", 88}}},
		{"Daniel Mokoena", "DSA101", "Durban", "2025-07-12", StatusPending, []Module{{401, "Databases", 71}, {402, "Cloud Computing", 64}, {403, "Ethics in AI", 80}}},
		{"Esther Naidoo", "DSA104", "Pretoria", "2025-07-13", StatusPending, nil},
		{"Farai Chikwanha", "DSA102", "Gqeberha", "2025-07-14", StatusApproved, []Module{{601, "Statistics", 91}, {602, "Visualisation", 87}}},
		{"Grace Botha", "DSA103", "Cape Town", "2025-07-15", StatusPending, []Module{{701, "Big Data", 59}, {702, "Data Wrangling", 66}}},
		{"Hassan Patel", "DSA101", "Johannesburg", "2025-07-15", StatusRejected, []Module{{801, "AI Basics", 48}}},
		{"Imani Zulu", "DSA104", "Bloemfontein", "2025-07-16", StatusPending, []Module{{901, "Deep Learning", 93}, {902, "NLP", 89}}},
		{"Jabu Khumalo", "DSA102", "", "2025-07-17", StatusApproved, []Module{{1001, "Machine Learning", 76}}},
		{"Kagiso Molefe", "DSA103", "Polokwane", "2025-07-18", StatusPending, []Module{{1101, "Databases", 68}, {1102, "Statistics", 72}}},
		{"Lerato Mahlangu", "DSA101", "Durban", "2025-07-19", StatusPending, []Module{{1201, "AI Basics", 81}}},
	}

	out := make([]Application, 0, len(seeds))
	for i, s := range seeds {
		id := int64(i + 1)
		app := Application{
			ID:                id,
			ApplicationID:     fmt.Sprintf("DSA-%06d", 100000+id),
			Email:             strings.ToLower(strings.ReplaceAll(s.name, " ", ".")) + "@example.org",
			SubmissionDate:    s.date,
			FullName:          s.name,
			CourseCode:        s.course,
			PreferredLocation: s.location,
			FinalYearModules:  s.modules,
			ApplicationStatus: string(s.status),
		}
		switch id {
		case 11:
			app.CVFile = "%%not-base64%%"
		case 12:
		default:
			app.CVFile = base64.StdEncoding.EncodeToString(SamplePDF("Curriculum vitae: " + s.name))
		}
		out = append(out, app)
	}
	return out
}

// SamplePDF renders a single-page PDF whose only content is text.
func SamplePDF(text string) []byte {
	escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
	content := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", escaped)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
