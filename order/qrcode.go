package order

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// TrackingURI is what the order QR code encodes.
func TrackingURI(orderNumber string) string {
	return fmt.Sprintf("fashion-studio:order/%s", orderNumber)
}

// TrackingQR renders the order's tracking URI as a PNG.
func TrackingQR(orderNumber string) ([]byte, error) {
	return qrcode.Encode(TrackingURI(orderNumber), qrcode.Medium, qrSize)
}
