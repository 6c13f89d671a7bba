package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"shady/internal/diag"
	"shady/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	content := []byte("%1 = int(width: w32, signed: true)\n%2 = int_literal(width: w99)\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.shd", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.BuildFieldMismatch,
		source.Span{File: fileID, Start: 59, End: 62},
		"unknown width w99",
	).WithNote(source.Span{File: fileID, Start: 5, End: 8}, "compare with this int"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.shd:2:25"},
		{"Relative path", PathModeRelative, "src/test.shd:2:25"},
		{"Basename only", PathModeBasename, "test.shd:2:25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("output %q does not contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestPrettyUnderlineAndNotes(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	want := "test.shd:2:25: ERROR IRB3003: unknown width w99\n" +
		"2 | %2 = int_literal(width: w99)\n" +
		"  |                         ^~~\n" +
		"test.shd:1:6: NOTE IRB3003: compare with this int\n" +
		"1 | %1 = int(width: w32, signed: true)\n" +
		"  |      ^~~\n"
	if buf.String() != want {
		t.Fatalf("pretty output mismatch:\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	out := buf.String()
	if !strings.Contains(out, "1 | %1 = int(") || !strings.Contains(out, "2 | %2 = int_literal(") {
		t.Fatalf("context lines missing:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeRelative}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "IRB3003" || d.Severity != "ERROR" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.File != "src/test.shd" || d.Location.StartLine != 2 || d.Location.StartCol != 25 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "shadyc", ToolVersion: "test", InvocationArgs: []string{"check"}}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 1 || run.Results[0].Level != "error" {
		t.Fatalf("results = %+v", run.Results)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("run = %+v", run)
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region.StartColumn != 25 {
		t.Fatal("region column")
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, ok := ParsePathMode(m.String())
		if !ok || got != m {
			t.Fatalf("ParsePathMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParsePathMode("weird"); ok {
		t.Fatal("accepted unknown mode")
	}
}
