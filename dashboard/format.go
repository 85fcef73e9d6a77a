package dashboard

import "fmt"

const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
)

// FormatBytes renders a byte count with binary (1024) tiers and two
// decimals above bytes: 512 -> "512 B", 1536 -> "1.50 KB".
func FormatBytes(n int64) string {
	switch {
	case n < kib:
		return fmt.Sprintf("%d B", n)
	case n < mib:
		return fmt.Sprintf("%.2f KB", float64(n)/kib)
	case n < gib:
		return fmt.Sprintf("%.2f MB", float64(n)/mib)
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/gib)
	}
}

func formatTotalBandwidth(total int64) string {
	if total <= 0 {
		return "0 B"
	}
	return FormatBytes(total)
}
