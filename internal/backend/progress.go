package backend

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var percentRe = regexp.MustCompile(`(\d+\.?\d*)%`)

// A progressParser classifies backend output lines. Percentage-bearing
// download lines become Progress events, reported only when they exceed the
// last value for the current item (backend output repeats and jitters);
// everything else except debug noise is forwarded verbatim.
type progressParser struct {
	// last is the monotonic floor for the current item, reset when the
	// backend announces the next destination file.
	last float64
}

func (p *progressParser) feed(line string, obs Observer) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "[debug]") {
		return
	}
	if strings.HasPrefix(line, "[download]") {
		if strings.Contains(line, "Destination:") {
			p.last = 0
			obs.Info(line)
			return
		}
		if strings.Contains(line, "%") {
			if m := percentRe.FindStringSubmatch(line); m != nil {
				pct, err := strconv.ParseFloat(m[1], 64)
				if err == nil && pct > p.last && pct <= 100 {
					p.last = pct
					obs.Progress(pct)
				}
				// Stale or jittering percentages are suppressed entirely.
				return
			}
		}
	}
	obs.Info(line)
}

func consumeOutput(r io.Reader, obs Observer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var parser progressParser
	for scanner.Scan() {
		parser.feed(scanner.Text(), obs)
	}
	// A scan error (a line over the buffer cap) must not leave the writer
	// blocked on the pipe; keep draining so the child can run to exit.
	io.Copy(io.Discard, r)
}
