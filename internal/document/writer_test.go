package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/presetgen/internal/models"
)

func TestEncode_SinglePreset(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []models.Preset{{
		Name: "Server1", IP: "127.0.0.1", Port: "7777", ClientVersion: "1.0", Encryption: true,
	}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := Declaration + "\n" +
		"<presets>\n" +
		"\t<preset name=\"Server1\" ip=\"127.0.0.1\" port=\"7777\" client_version=\"1.0\" encryption=\"true\" />\n" +
		"</presets>\n"
	if buf.String() != want {
		t.Errorf("document =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.String() != Declaration+"\n<presets />\n" {
		t.Errorf("document = %q", buf.String())
	}
	doc, err := Decode(&buf)
	if err != nil {
		t.Fatalf("empty document should be well-formed: %v", err)
	}
	if len(doc.Presets) != 0 {
		t.Errorf("presets = %+v, want none", doc.Presets)
	}
}

func TestEncode_EscapesAndRoundTrips(t *testing.T) {
	in := []models.Preset{
		{Name: `Tom & "Jerry" <3`, IP: "::1", Port: "80", ClientVersion: "v'2'\t", Encryption: false},
		{Name: " padded ", IP: "10.0.0.2", Port: "+81", ClientVersion: "1", Encryption: true},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(buf.String(), `"Jerry"`) {
		t.Errorf("quotes not escaped: %s", buf.String())
	}
	doc, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Presets) != len(in) {
		t.Fatalf("presets = %d, want %d", len(doc.Presets), len(in))
	}
	for i := range in {
		if doc.Presets[i] != in[i] {
			t.Errorf("preset %d = %+v, want %+v", i, doc.Presets[i], in[i])
		}
	}
}

func TestEncode_AttributeOrder(t *testing.T) {
	var buf bytes.Buffer
	_ = Encode(&buf, []models.Preset{{Name: "n", IP: "i", Port: "1", ClientVersion: "c"}})
	line := strings.Split(buf.String(), "\n")[2]
	order := []string{"name=", "ip=", "port=", "client_version=", "encryption="}
	last := -1
	for _, attr := range order {
		idx := strings.Index(line, " "+attr)
		if idx <= last {
			t.Fatalf("attribute %s out of order in %q", attr, line)
		}
		last = idx
	}
	if !strings.Contains(line, `encryption="false"`) {
		t.Errorf("encryption should be lowercase false: %q", line)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.xml")

	if err := WriteFile(path, []models.Preset{{Name: "a", IP: "b", Port: "1", ClientVersion: "c"}}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Presets) != 1 || doc.Presets[0].Name != "a" {
		t.Errorf("presets = %+v", doc.Presets)
	}
}

func TestWriteFile_UnwritableDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "presets.xml")
	if err := WriteFile(path, nil); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
