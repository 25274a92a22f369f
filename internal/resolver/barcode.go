package resolver

import "fmt"

// validBarcodeLengths are the symbologies accepted for manual entry:
// UPC-E (8), UPC-A (12) and EAN-13 (13).
var validBarcodeLengths = map[int]bool{8: true, 12: true, 13: true}

// ValidateBarcode checks a manually entered barcode before resolution.
// Scanned barcodes skip this: the scanner backend already decoded a valid
// symbol.
func ValidateBarcode(barcode string) error {
	if !validBarcodeLengths[len(barcode)] {
		return fmt.Errorf("barcode must be 8, 12 or 13 digits, got %d characters", len(barcode))
	}
	for _, c := range barcode {
		if c < '0' || c > '9' {
			return fmt.Errorf("barcode must contain only digits")
		}
	}
	return nil
}
