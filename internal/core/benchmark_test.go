package core

import "testing"

func BenchmarkParseIdentifier(b *testing.B) {
	inputs := []string{"103224", "103 224", "ETSI TS 103 224", "EG 202 396-3", "PAS 101 001", "01 001"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseIdentifier(inputs[i%len(inputs)])
	}
}

func BenchmarkParseVersionDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseVersionDir("/deliver/etsi_ts/103200_103299/103224/01.07.01_60/")
	}
}

func BenchmarkSortVersions(b *testing.B) {
	base := []VersionEntry{
		{Directory: "01.06.02_30", Number: "01.06.02", ReleaseCode: "30"},
		{Directory: "02.01.01_10", Number: "02.01.01", ReleaseCode: "10"},
		{Directory: "01.07.01_60", Number: "01.07.01", ReleaseCode: "60"},
		{Directory: "01.07.01_50", Number: "01.07.01", ReleaseCode: "50"},
		{Directory: "01.01.01", Number: "01.01.01", ReleaseCode: "00"},
	}
	versions := make([]VersionEntry, len(base))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(versions, base)
		SortVersions(versions)
	}
}

func BenchmarkPURL(b *testing.B) {
	id := SpecIdentifier{DocType: EG, Prefix: "202", Number: "396", Part: "3"}
	for i := 0; i < b.N; i++ {
		_ = PURL(id, "01.07.01")
	}
}
