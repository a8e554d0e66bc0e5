package invoice

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-invoice/internal/fileutil"
)

var recordNumberPattern = regexp.MustCompile(`invoice_(\d+)\.json`)

// NextInvoiceNumber returns one more than the highest number found in
// invoice_<n>.json names in dir, zero-padded to three digits ("001" when
// there are none). dir is created when missing. The number is derived on
// every call; nothing is stored between calls.
func NextInvoiceNumber(dir string) (string, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}

	highest := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, RecordExt) {
			continue
		}
		m := recordNumberPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue // out of range
		}
		highest = max(highest, n)
	}

	return fmt.Sprintf("%03d", highest+1), nil
}
