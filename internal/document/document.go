// Package document builds Office Open XML files in memory. The containers
// are assembled directly over archive/zip and encoding/xml; builders are
// pure functions of their inputs and accept any content, producing a
// degenerate but valid file rather than failing on odd input.
package document

// MIME types of the files this package produces.
const (
	MIMEWord  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMESlide = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEText  = "text/plain; charset=utf-8"
)

// File is a generated document ready to be sent as a Telegram attachment.
type File struct {
	Name string
	MIME string
	Data []byte
}

// TextAttachment wraps plain text as a .txt file. Used for answers too
// long to send inline.
func TextAttachment(name, text string) *File {
	return &File{
		Name: name,
		MIME: MIMEText,
		Data: []byte(text),
	}
}
