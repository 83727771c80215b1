package duration

import (
	"encoding/json"
	"testing"
)

func TestParse_Tokens(t *testing.T) {
	cases := map[string]int{
		"1h 30m":  90,
		"2h":      120,
		"45m":     45,
		"1.5h":    90,
		"3H":      180,
		"02:15":   135,
		"1:00:00": 60,
	}
	for in, want := range cases {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if d.Minutes() != want {
			t.Fatalf("Parse(%q) = %d minutes, want %d", in, d.Minutes(), want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "soon", "ten minutes", "1h30", "abc 2h", "2h later", "169:00", "168:01", "200h", "99999999999999999999m"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestUnmarshal_BothEncodings(t *testing.T) {
	var obj Duration
	if err := json.Unmarshal([]byte(`{"hours": 2, "minutes": 15}`), &obj); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if obj.Minutes() != 135 || obj.Encoding() != EncodingObject {
		t.Fatalf("object: got %d minutes encoding=%d", obj.Minutes(), obj.Encoding())
	}

	var str Duration
	if err := json.Unmarshal([]byte(`"2h 15m"`), &str); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if str.Minutes() != 135 || str.Encoding() != EncodingString {
		t.Fatalf("string: got %d minutes encoding=%d", str.Minutes(), str.Encoding())
	}

	var onlyMinutes Duration
	if err := json.Unmarshal([]byte(`{"minutes": 30}`), &onlyMinutes); err != nil {
		t.Fatalf("unmarshal minutes only: %v", err)
	}
	if onlyMinutes.Minutes() != 30 {
		t.Fatalf("minutes only: got %d", onlyMinutes.Minutes())
	}
}

func TestUnmarshal_Rejects(t *testing.T) {
	for _, in := range []string{`{}`, `{"hours": -1}`, `42`, `"later"`, `true`, `{"hours": 169}`, `{"minutes": 4611686018427387904}`, `{"hours": 1e300}`} {
		var d Duration
		if err := json.Unmarshal([]byte(in), &d); err == nil {
			t.Fatalf("unmarshal %s expected error", in)
		}
	}
}

func TestMarshal_EchoesEncoding(t *testing.T) {
	b, _ := json.Marshal(FromMinutes(90))
	if string(b) != `{"hours":1,"minutes":30}` {
		t.Fatalf("object marshal = %s", b)
	}

	b, _ = json.Marshal(FromMinutes(90).WithEncoding(EncodingString))
	if string(b) != `"1h 30m"` {
		t.Fatalf("string marshal = %s", b)
	}
}

func TestScanValue(t *testing.T) {
	var d Duration
	if err := d.Scan(int64(75)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	v, _ := d.Value()
	if v.(int64) != 75 {
		t.Fatalf("value = %v", v)
	}
	if d.Hours() != 1.25 {
		t.Fatalf("hours = %v", d.Hours())
	}
}

func TestBounds(t *testing.T) {
	week, err := Parse("168h")
	if err != nil || week.Minutes() != MaxMinutes || !week.Valid() {
		t.Fatalf("one week should be accepted: %v %v", week, err)
	}
	if FromMinutes(0).Valid() {
		t.Fatalf("zero is not a valid duration")
	}
	if FromMinutes(MaxMinutes + 1).Valid() {
		t.Fatalf("longer than a week is not valid")
	}
	if FromMinutes(1 << 62).Valid() {
		t.Fatalf("huge values are not valid")
	}
}
