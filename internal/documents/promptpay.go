package documents

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PromptPay EMVCo merchant-presented payload tags.
const (
	promptPayAID = "A000000677010111"

	idPayloadFormat     = "00"
	idPointOfInitiation = "01"
	idMerchantInfo      = "29"
	idCurrency          = "53"
	idAmount            = "54"
	idCountry           = "58"
	idCRC               = "63"

	currencyTHB = "764"
)

// BuildPromptPayPayload produces an EMVCo merchant-presented payload for a
// Thai PromptPay transfer. The target is either a mobile number (10 digits,
// leading zero) or a national id / tax id (13 digits). A positive amount
// makes the QR one-time; zero produces a reusable static QR.
func BuildPromptPayPayload(target string, amount float64) (string, error) {
	account, err := promptPayAccount(target)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeTLV(&b, idPayloadFormat, "01")
	if amount > 0 {
		writeTLV(&b, idPointOfInitiation, "12")
	} else {
		writeTLV(&b, idPointOfInitiation, "11")
	}

	var merchant strings.Builder
	writeTLV(&merchant, "00", promptPayAID)
	writeTLV(&merchant, account.tag, account.value)
	writeTLV(&b, idMerchantInfo, merchant.String())

	writeTLV(&b, idCurrency, currencyTHB)
	if amount > 0 {
		writeTLV(&b, idAmount, fmt.Sprintf("%.2f", amount))
	}
	writeTLV(&b, idCountry, "TH")

	payload := b.String() + idCRC + "04"
	return payload + crc16Hex(payload), nil
}

// QRDataURI renders the PromptPay payload as a PNG data URI suitable for
// embedding in an HTML document.
func QRDataURI(target string, amount float64, size int) (string, error) {
	payload, err := BuildPromptPayPayload(target, amount)
	if err != nil {
		return "", err
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("documents: encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

type promptPayTarget struct {
	tag   string
	value string
}

func promptPayAccount(target string) (promptPayTarget, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, target)

	switch {
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		// Mobile numbers are encoded with the country prefix replacing the
		// leading zero: 0812345678 becomes 0066812345678.
		return promptPayTarget{tag: "01", value: "0066" + digits[1:]}, nil
	case len(digits) == 13:
		return promptPayTarget{tag: "02", value: digits}, nil
	default:
		return promptPayTarget{}, errors.New("documents: promptpay target must be a mobile number or national id")
	}
}

func writeTLV(b *strings.Builder, id, value string) {
	fmt.Fprintf(b, "%s%02d%s", id, len(value), value)
}

// crc16Hex computes CRC-16/CCITT-FALSE over the payload, as required by the
// EMVCo QR specification.
func crc16Hex(payload string) string {
	crc := uint16(0xFFFF)
	for _, c := range []byte(payload) {
		crc ^= uint16(c) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
