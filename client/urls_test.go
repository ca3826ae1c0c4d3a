package client

import "testing"

func TestDeliveryURLs(t *testing.T) {
	u := NewDeliveryURLs("")

	if got := u.Listing("TS"); got != "https://www.etsi.org/deliver/etsi_ts/" {
		t.Errorf("Listing = %q", got)
	}

	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"
	if got := u.Version(dir, "01.07.01_60"); got != dir+"01.07.01_60/" {
		t.Errorf("Version = %q", got)
	}
	if got := u.Artifact(dir[:len(dir)-1], "01.07.01_60", "ts_103224v010701p.pdf"); got != dir+"01.07.01_60/ts_103224v010701p.pdf" {
		t.Errorf("Artifact = %q", got)
	}
}

func TestNewDeliveryURLs_TrimsSlash(t *testing.T) {
	u := NewDeliveryURLs("http://localhost:8080/deliver/")
	if got := u.Listing("eg"); got != "http://localhost:8080/deliver/etsi_eg/" {
		t.Errorf("Listing = %q", got)
	}
}

func TestBuildURLs(t *testing.T) {
	u := NewDeliveryURLs("")
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"

	urls := BuildURLs(u, dir, "01.07.01_60", "ts_103224v010701p.pdf")
	if len(urls) != 3 {
		t.Fatalf("expected 3 URLs, got %d: %v", len(urls), urls)
	}
	if urls["artifact"] != dir+"01.07.01_60/ts_103224v010701p.pdf" {
		t.Errorf("artifact = %q", urls["artifact"])
	}

	urls = BuildURLs(u, dir, "", "")
	if len(urls) != 1 || urls["directory"] != dir {
		t.Errorf("BuildURLs without version = %v", urls)
	}

	if urls := BuildURLs(u, "", "01.07.01_60", "x.pdf"); len(urls) != 0 {
		t.Errorf("BuildURLs without directory = %v", urls)
	}
}
