package cli

import "testing"

func release(tag, name string, draft, pre bool, assets ...string) githubRelease {
	r := githubRelease{TagName: tag, Name: name, Draft: draft, Prerelease: pre}
	for _, a := range assets {
		r.Assets = append(r.Assets, struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		}{Name: a, BrowserDownloadURL: "https://example.invalid/" + a})
	}
	return r
}

func TestLatestRelease(t *testing.T) {
	rels := []githubRelease{
		release("v0.9.0", "", false, false, "rasterfx_linux_amd64.tar.gz"),
		release("v2.0.0", "", true, false, "draft.tar.gz"),
		release("v1.5.0-rc1", "", false, true),
		release("nightly", "release 1.2.3", false, false, "checksums.txt", "rasterfx_darwin_arm64.tar.gz"),
		release("build-7", "untagged", false, false),
	}
	got, ok := latestRelease(rels)
	if !ok {
		t.Fatalf("no release found")
	}
	if got.Version.String() != "1.2.3" {
		t.Fatalf("version = %s, want 1.2.3", got.Version)
	}
	if got.AssetURL != "https://example.invalid/rasterfx_darwin_arm64.tar.gz" {
		t.Fatalf("asset = %s", got.AssetURL)
	}
}

func TestLatestReleaseNone(t *testing.T) {
	if _, ok := latestRelease([]githubRelease{release("latest", "", false, false)}); ok {
		t.Fatalf("found a release without a version")
	}
	if _, ok := latestRelease(nil); ok {
		t.Fatalf("found a release in an empty list")
	}
}
