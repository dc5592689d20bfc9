package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// githubRelease is the subset of the GitHub releases payload we read.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// latestRelease picks the highest published semver release. Tags that do
// not contain a version fall back to the release name. The asset prefers
// names mentioning an OS or architecture.
func latestRelease(releases []githubRelease) (*selfupdate.Release, bool) {
	var best *selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		if best != nil && !v.GT(best.Version) {
			continue
		}
		asset := ""
		for _, a := range r.Assets {
			n := strings.ToLower(a.Name)
			if strings.Contains(n, "darwin") || strings.Contains(n, "linux") || strings.Contains(n, "windows") ||
				strings.Contains(n, "amd64") || strings.Contains(n, "arm64") {
				asset = a.BrowserDownloadURL
				break
			}
			if asset == "" {
				asset = a.BrowserDownloadURL
			}
		}
		best = &selfupdate.Release{Version: v, AssetURL: asset, Name: r.Name}
	}
	return best, best != nil
}

// detectLatest asks selfupdate first and falls back to reading the
// releases list directly, which tolerates loosely named tags.
func detectLatest(repo string) (*selfupdate.Release, bool, error) {
	if rel, found, err := selfupdate.DetectLatest(repo); err == nil && found {
		return rel, true, nil
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("https://api.github.com/repos/%s/releases", repo))
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, body)
	}
	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	rel, found := latestRelease(releases)
	return rel, found, nil
}

// CheckForUpdates compares Version with the newest release of repo and,
// after confirmation through ask, replaces the running binary.
func CheckForUpdates(repo string, ask func(string) (string, error), out io.Writer) error {
	fmt.Fprintf(out, "Current version: %s\n", Version)
	latest, found, err := detectLatest(repo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(out, "No releases found for %s.\n", repo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	current, err := semver.Parse(strings.TrimPrefix(Version, "v"))
	if err != nil {
		fmt.Fprintf(out, "warning: could not parse current version %q: %v\n", Version, err)
	} else if !latest.Version.GT(current) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", current)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}

	answer, err := ask(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(out, "Update cancelled.")
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to version %s. Restart rasterfx to use it.\n", latest.Version)
	return nil
}
