package notice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Document is the deterministic input for rendering one notice. Built
// transiently per delinquent account and discarded after serialization.
type Document struct {
	Park                  ParkProfile
	Date                  time.Time
	LotNumber             int
	AfterGraceCents       int64
	AfterSecondGraceCents int64
	SecondDeadline        time.Time
}

// Renderer turns delinquent accounts into the notice artifact. Now is
// injected so tests control the rendered dates.
type Renderer struct {
	Park      ParkProfile
	GraceDays int
	Now       func() time.Time
}

const dateLayout = "02 January 2006"

func (r Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Document builds the view for one delinquent lot.
func (r Renderer) Document(lot int, afterGraceCents, afterSecondGraceCents int64) Document {
	now := r.now()
	return Document{
		Park:                  r.Park,
		Date:                  now,
		LotNumber:             lot,
		AfterGraceCents:       afterGraceCents,
		AfterSecondGraceCents: afterSecondGraceCents,
		SecondDeadline:        now.AddDate(0, 0, r.GraceDays),
	}
}

// Render assembles the whole artifact in memory. Each document after the
// first starts on a new page (form feed).
func Render(docs []Document) string {
	var b strings.Builder
	for i, d := range docs {
		if i > 0 {
			b.WriteString("\f\n")
		}
		writeDocument(&b, d)
	}
	return b.String()
}

func writeDocument(b *strings.Builder, d Document) {
	fmt.Fprintf(b, "%s\n", d.Park.Name)
	fmt.Fprintf(b, "%s\n", d.Park.Address)
	fmt.Fprintf(b, "%s\n", d.Park.CityZip)
	fmt.Fprintf(b, "Park Manager Phone: %s\n", d.Park.ManagerPhone)
	fmt.Fprintf(b, "%s\n", d.Park.Email)
	b.WriteString("\n")
	fmt.Fprintf(b, "Date: %s\n", d.Date.Format(dateLayout))
	b.WriteString("\n")
	fmt.Fprintf(b, "Lot# %d\n", d.LotNumber)
	b.WriteString("\n")
	fmt.Fprintf(b, "You have an unpaid balance of: $%s\n", dollars(d.AfterGraceCents))
	b.WriteString("\n")
	fmt.Fprintf(b, "This letter will be your final warning before you are turned over "+
		"to the attorney's office in 36 hours for an eviction to be filed. "+
		"You were given a notice to pay the amount due in full. Rent is due on "+
		"the 1st and considered late if paid after the 5th of each month. Rent "+
		"amount due after %s will be $%s\n",
		d.SecondDeadline.Format(dateLayout), dollars(d.AfterSecondGraceCents))
	b.WriteString("\n")
	b.WriteString("We have given all tenants a grace period of 5 days to pay the amount owed " +
		"in full and expect tenants not to take advantage of our policy. We will " +
		"begin evicting those that are continually receiving this letter for nonpayment " +
		"and paying late. I am willing to discuss your account and take full payment only.\n")
	b.WriteString("\n\n\n")
	fmt.Fprintf(b, "**%s Management**\n", d.Park.Name)
}

func dollars(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// ArtifactPath encodes the run date and park code into the destination
// file name, e.g. resources/20260901_CT-LateNotice.txt.
func ArtifactPath(dir string, park ParkProfile, now time.Time) string {
	name := fmt.Sprintf("%s_%s-LateNotice.txt", now.Format("20060102"), strings.ToUpper(park.Code))
	return filepath.Join(dir, name)
}

// Write stores the artifact atomically: the content lands in a temp file
// in the destination directory and is renamed into place, so a failed run
// never leaves a partial artifact behind.
func Write(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}
