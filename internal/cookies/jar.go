// Package cookies handles the Netscape-format cookies.txt file handed to
// yt-dlp for restricted videos: locating it, validating it, and exporting it
// from an installed browser.
package cookies

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/site"
)

// FileName is the cookie jar file name looked up in the application folder
const FileName = "cookies.txt"

const (
	httpOnlyPrefix = "#HttpOnly_"
	fieldCount     = 7
	flagTrue       = "TRUE"
)

var (
	ErrEmptyJar  = errors.New("cookie file contains no cookies")
	ErrNoCookies = errors.New("cookie file has no valid cookies for platform")
)

// Cookie is one line of a Netscape cookie jar
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	HTTPOnly          bool
	Expires           time.Time // zero for session cookies
	Name              string
	Value             string
}

// IsExpired reports whether the cookie expired before now. Session cookies
// never expire here.
func (c Cookie) IsExpired(now time.Time) bool {
	return !c.Expires.IsZero() && now.After(c.Expires)
}

// MatchesDomain reports whether the cookie domain equals or is a subdomain of suffix
func (c Cookie) MatchesDomain(suffix string) bool {
	domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	suffix = strings.TrimPrefix(strings.ToLower(suffix), ".")
	return domain == suffix || strings.HasSuffix(domain, "."+suffix)
}

// Jar is a parsed cookies.txt
type Jar struct {
	Cookies   []Cookie
	Malformed int // lines that could not be parsed
}

// Parse reads a Netscape cookie jar. Malformed lines are counted and skipped.
func Parse(r io.Reader) (*Jar, error) {
	jar := &Jar{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		cookie, ok := parseLine(line)
		if !ok {
			jar.Malformed++
			continue
		}
		cookie.HTTPOnly = httpOnly
		jar.Cookies = append(jar.Cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}
	return jar, nil
}

// ParseFile opens and parses a cookie jar file
func ParseFile(path string) (*Jar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (Cookie, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return Cookie{}, false
	}
	if fields[0] == "" || fields[5] == "" {
		return Cookie{}, false
	}
	expiry, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Cookie{}, false
	}

	c := Cookie{
		Domain:            fields[0],
		IncludeSubdomains: strings.EqualFold(fields[1], flagTrue),
		Path:              fields[2],
		Secure:            strings.EqualFold(fields[3], flagTrue),
		Name:              fields[5],
		Value:             fields[6],
	}
	if expiry > 0 {
		c.Expires = time.Unix(expiry, 0)
	}
	return c, true
}

// Len returns the number of parsed cookies
func (j *Jar) Len() int {
	return len(j.Cookies)
}

// ForDomain returns cookies whose domain matches suffix
func (j *Jar) ForDomain(suffix string) []Cookie {
	var matched []Cookie
	for _, c := range j.Cookies {
		if c.MatchesDomain(suffix) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Expired returns cookies that expired before now
func (j *Jar) Expired(now time.Time) []Cookie {
	var expired []Cookie
	for _, c := range j.Cookies {
		if c.IsExpired(now) {
			expired = append(expired, c)
		}
	}
	return expired
}

// Validate checks the jar carries at least one live cookie for the platform
func (j *Jar) Validate(p model.Platform, now time.Time) error {
	if j.Len() == 0 {
		return ErrEmptyJar
	}
	profile, ok := site.ProfileFor(p)
	if !ok {
		return fmt.Errorf("unknown platform: %s", p)
	}
	for _, domain := range profile.CookieDomains {
		for _, c := range j.ForDomain(domain) {
			if !c.IsExpired(now) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w %s", ErrNoCookies, p)
}
