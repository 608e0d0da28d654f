package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const progressEvery = 5 * time.Second

// errClientGone wraps write failures: the listener hung up.
var errClientGone = errors.New("client went away")

// progressMeter counts relayed bytes and logs throughput at debug level.
type progressMeter struct {
	Logger    *slog.Logger
	Target    string
	Relayed   int64
	Started   time.Time
	LastPrint time.Time
}

func (pm *progressMeter) add(n int) {
	pm.Relayed += int64(n)

	if time.Since(pm.LastPrint) > progressEvery {
		pm.printProgress()
		pm.LastPrint = time.Now()
	}
}

func (pm *progressMeter) printProgress() {
	mb := float64(pm.Relayed) / 1024 / 1024
	secs := time.Since(pm.Started).Seconds()
	rate := 0.0
	if secs > 0 {
		rate = mb / secs
	}
	pm.Logger.Debug("Relay progress", "url", pm.Target, "mb", mb, "mb_per_sec", rate)
}

// relay copies src to w in order through a buf-sized read-ahead window and
// flushes after every write so each chunk leaves immediately. Writes block
// while the client is slow, which in turn stops reads from src.
//
// A write error is returned wrapped in errClientGone. A read error is
// returned as is. io.EOF ends the relay with a nil error.
func relay(w http.ResponseWriter, src io.Reader, buf []byte, pm *progressMeter) error {
	rc := http.NewResponseController(w)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return errors.Join(errClientGone, werr)
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				return errors.Join(errClientGone, ferr)
			}
			pm.add(n)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
