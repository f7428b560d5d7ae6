package mail

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/url"
	"strings"
)

// bodyCap bounds how much of a message body gets read.
const bodyCap = 8 << 20

// htmlPart returns the decoded text/html part of a raw RFC822 message, or ""
// when the message has none.
func htmlPart(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	body, _ := io.ReadAll(io.LimitReader(msg.Body, bodyCap))
	return htmlFromPart(textHeader(msg.Header), body)
}

type partHeader struct {
	contentType      string
	transferEncoding string
}

func textHeader(h mail.Header) partHeader {
	return partHeader{
		contentType:      h.Get("Content-Type"),
		transferEncoding: h.Get("Content-Transfer-Encoding"),
	}
}

func htmlFromPart(h partHeader, body []byte) string {
	mediaType, params, err := mime.ParseMediaType(h.contentType)
	if err != nil {
		return ""
	}
	mediaType = strings.ToLower(mediaType)

	switch {
	case mediaType == "text/html":
		return string(decodeTransferEncoding(body, h.transferEncoding))

	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" {
			return ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			p, err := mr.NextPart()
			if err != nil {
				return ""
			}
			partBody, _ := io.ReadAll(io.LimitReader(p, bodyCap))
			ph := partHeader{
				contentType:      p.Header.Get("Content-Type"),
				transferEncoding: p.Header.Get("Content-Transfer-Encoding"),
			}
			if found := htmlFromPart(ph, partBody); found != "" {
				return found
			}
		}
	}
	return ""
}

func decodeTransferEncoding(body []byte, cte string) []byte {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "quoted-printable":
		out, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
		if err != nil {
			return body
		}
		return out
	case "base64":
		out, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, bytes.NewReader(bytes.TrimSpace(body))))
		if err != nil {
			return body
		}
		return out
	default:
		return body
	}
}

// resolve makes an extracted href absolute against the configured base URL.
func resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == "" {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Host == "" {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}
