package label

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Kind tags a reference by what it points at.
type Kind int

const (
	// KindMember is an internal reference to another label, by logical
	// identifier, from a bundle member entry.
	KindMember Kind = iota
	// KindInventory is an external reference to a collection inventory
	// file, whose rows are in turn internal member references.
	KindInventory
	// KindDataFile is an external reference to a product data file.
	KindDataFile
	// KindDocumentFile is an external reference to a document file.
	KindDocumentFile
	// KindReadme is an external reference to a text attachment such as a
	// bundle readme.
	KindReadme
)

func (k Kind) String() string {
	switch k {
	case KindMember:
		return "member"
	case KindInventory:
		return "inventory"
	case KindDataFile:
		return "data file"
	case KindDocumentFile:
		return "document file"
	case KindReadme:
		return "readme"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reference is one typed edge out of a label. Internal references carry a
// target logical identifier; external references carry a file path relative
// to the label's directory.
type Reference struct {
	Kind     Kind
	LID      string
	VID      string
	FileName string
	Status   string // member_status for member entries
}

// Internal reports whether the reference targets another label rather than
// a concrete file.
func (r Reference) Internal() bool { return r.Kind == KindMember }

// Primary reports whether a member reference is a primary member. Only
// primary members belong to the bundle's own tree.
func (r Reference) Primary() bool {
	return r.Kind == KindMember && strings.EqualFold(r.Status, "Primary")
}

// Document is one parsed label.
type Document struct {
	Path  string
	Class string // root element name, e.g. Product_Bundle
	LID   string
	VID   string
	Refs  []Reference
}

// LIDVID renders the lid::vid form, or just the lid when no version is set.
func (d *Document) LIDVID() string {
	if d.VID == "" {
		return d.LID
	}
	return d.LID + "::" + d.VID
}

// UnreadableError reports a label that could not be parsed into the
// expected shape.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable label %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Load parses the label at path. Absent or empty reference sections yield
// an empty Refs slice; only structurally unparsable input is an error.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := parse(f)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	doc.Path = path
	return doc, nil
}

func parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}

	// Element state while walking the token stream.
	var stack []string
	var text strings.Builder
	var member *Reference

	inStack := func(name string) bool {
		for _, el := range stack {
			if el == name {
				return true
			}
		}
		return false
	}
	fileAreaKind := func() (Kind, bool) {
		for i := len(stack) - 1; i >= 0; i-- {
			switch {
			case stack[i] == "File_Area_Inventory":
				return KindInventory, true
			case stack[i] == "File_Area_Text":
				return KindReadme, true
			case stack[i] == "Document_File":
				return KindDocumentFile, true
			case strings.HasPrefix(stack[i], "File_Area"):
				return KindDataFile, true
			}
		}
		return 0, false
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			if len(stack) == 0 {
				doc.Class = name
			}
			stack = append(stack, name)
			text.Reset()
			if name == "Bundle_Member_Entry" {
				member = &Reference{Kind: KindMember}
			}

		case xml.CharData:
			text.Write(el)

		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			text.Reset()
			name := el.Name.Local
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

			switch name {
			case "logical_identifier":
				if doc.LID == "" && inStack("Identification_Area") {
					doc.LID = value
				}
			case "version_id":
				if doc.VID == "" && inStack("Identification_Area") {
					doc.VID = value
				}
			case "lid_reference":
				if member != nil {
					member.LID = value
				}
			case "lidvid_reference":
				if member != nil {
					member.LID, member.VID = SplitLIDVID(value)
				}
			case "member_status":
				if member != nil {
					member.Status = value
				}
			case "file_name":
				if kind, ok := fileAreaKind(); ok && value != "" {
					doc.Refs = append(doc.Refs, Reference{Kind: kind, FileName: value})
				}
			case "Bundle_Member_Entry":
				if member != nil && member.LID != "" {
					doc.Refs = append(doc.Refs, *member)
				}
				member = nil
			}
		}
	}

	if doc.Class == "" {
		return nil, errors.New("no root element")
	}
	if doc.LID == "" {
		return nil, errors.New("no Identification_Area logical_identifier")
	}
	return doc, nil
}

// SplitLIDVID splits a lid::vid reference; the vid part is empty when the
// separator is absent.
func SplitLIDVID(value string) (lid, vid string) {
	if i := strings.Index(value, "::"); i >= 0 {
		return value[:i], value[i+2:]
	}
	return value, ""
}
