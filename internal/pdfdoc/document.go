// Package pdfdoc implements imposition.Document on top of pdfcpu. Source
// pages become form XObjects and the output sheets replace the page tree of
// the source context when the document is committed.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/t12nslookup/hexapdf-nup/internal/imposition"
)

var (
	ErrEmptyInput    = errors.New("pdfdoc: input is empty")
	ErrNoPage        = errors.New("pdfdoc: no such page")
	ErrEmptyBox      = errors.New("pdfdoc: page has no usable box")
	ErrSheetClosed   = errors.New("pdfdoc: sheet already closed")
	ErrCommitted     = errors.New("pdfdoc: document already committed")
	errOpenSheetLeft = errors.New("pdfdoc: sheet not closed")
)

// Catalog entries that point into the replaced page tree.
var staleCatalogKeys = []string{"Outlines", "PageLabels", "OpenAction", "Dests"}

// Document is a source PDF being rewritten into sheets.
type Document struct {
	ctx       *model.Context
	pageCount int

	forms     map[int]*types.IndirectRef
	pagesDict types.Dict
	pagesRef  *types.IndirectRef
	kids      types.Array
	open      *Sheet
	committed bool
}

var _ imposition.Document = (*Document)(nil)

// Read parses a PDF. password may be empty.
func Read(r io.Reader, password string) (*Document, error) {
	pdfBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(pdfBytes) == 0 {
		return nil, ErrEmptyInput
	}

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}

	return &Document{
		ctx:       ctx,
		pageCount: ctx.PageCount,
		forms:     make(map[int]*types.IndirectRef),
	}, nil
}

// Open reads the PDF file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Read(f, "")
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return doc, nil
}

// PageCount returns the number of source pages.
func (d *Document) PageCount() int {
	return d.pageCount
}

type sourcePage struct {
	dict   types.Dict
	box    *types.Rectangle
	rotate int
	res    types.Dict
}

func (d *Document) sourcePage(page int) (*sourcePage, error) {
	if d.committed {
		return nil, ErrCommitted
	}
	if page < 0 || page >= d.pageCount {
		return nil, fmt.Errorf("%w: %d", ErrNoPage, page+1)
	}
	pageDict, _, inh, err := d.ctx.PageDict(page+1, false)
	if err != nil {
		return nil, err
	}
	if pageDict == nil || inh == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoPage, page+1)
	}

	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	if box == nil || box.Width() <= 0 || box.Height() <= 0 {
		return nil, fmt.Errorf("%w: page %d", ErrEmptyBox, page+1)
	}

	res := inh.Resources
	if res == nil {
		if res, err = d.ctx.DereferenceDict(pageDict["Resources"]); err != nil {
			return nil, err
		}
	}

	return &sourcePage{dict: pageDict, box: box, rotate: inh.Rotate, res: res}, nil
}

// size is the page size as displayed, after rotation.
func (p *sourcePage) size() (width, height float64) {
	if quarterTurned(p.rotate) {
		return p.box.Height(), p.box.Width()
	}
	return p.box.Width(), p.box.Height()
}

func quarterTurned(rotate int) bool {
	return (rotate%180+180)%180 == 90
}

// PageSize returns the size of a zero-based source page, taking the crop
// box, or the media box when there is none, and page rotation into account.
func (d *Document) PageSize(page int) (float64, float64, error) {
	p, err := d.sourcePage(page)
	if err != nil {
		return 0, 0, err
	}
	w, h := p.size()
	return w, h, nil
}

// form returns the form XObject for a source page, creating it on first
// use. Its bounding box is [0 0 width height] of the displayed page.
func (d *Document) form(page int) (*types.IndirectRef, error) {
	if ref, ok := d.forms[page]; ok {
		return ref, nil
	}
	p, err := d.sourcePage(page)
	if err != nil {
		return nil, err
	}

	var content []byte
	if _, ok := p.dict["Contents"]; ok {
		content, err = d.ctx.PageContent(p.dict, page+1)
		if err != nil {
			return nil, err
		}
	}

	// The rotation matrix is built for the displayed size.
	w, h := p.size()
	var buf bytes.Buffer
	buf.WriteString("q ")
	if p.rotate != 0 {
		buf.Write(model.ContentBytesForPageRotation(p.rotate, w, h))
	}
	fmt.Fprintf(&buf, "1 0 0 1 %.5f %.5f cm ", -p.box.LL.X, -p.box.LL.Y)
	buf.Write(content)
	buf.WriteString(" Q ")

	sd, err := d.ctx.NewStreamDictForBuf(buf.Bytes())
	if err != nil {
		return nil, err
	}
	sd.Dict["Type"] = types.Name("XObject")
	sd.Dict["Subtype"] = types.Name("Form")
	sd.Dict["FormType"] = types.Integer(1)
	sd.Dict["BBox"] = types.RectForWidthAndHeight(0, 0, w, h).Array()
	if p.res != nil {
		sd.Dict["Resources"] = p.res
	} else {
		sd.Dict["Resources"] = types.Dict{}
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}

	ref, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, err
	}
	d.forms[page] = ref
	return ref, nil
}

func (d *Document) ensurePageTree() error {
	if d.pagesRef != nil {
		return nil
	}
	d.pagesDict = types.Dict{
		"Type":  types.Name("Pages"),
		"Count": types.Integer(0),
		"Kids":  types.Array{},
	}
	ref, err := d.ctx.IndRefForNewObject(d.pagesDict)
	if err != nil {
		return err
	}
	d.pagesRef = ref
	return nil
}

// NewSheet starts a new output page. The previous sheet must be closed.
func (d *Document) NewSheet(width, height float64) (imposition.Sheet, error) {
	if d.committed {
		return nil, ErrCommitted
	}
	if d.open != nil {
		return nil, errOpenSheetLeft
	}
	if err := d.ensurePageTree(); err != nil {
		return nil, err
	}
	s := &Sheet{
		doc:     d,
		width:   width,
		height:  height,
		xobject: types.Dict{},
	}
	d.open = s
	return s, nil
}

// Sheets returns the number of closed output sheets.
func (d *Document) Sheets() int {
	return len(d.kids)
}

// Commit replaces the source page tree with the output sheets. Catalog
// entries referring to source pages are dropped.
func (d *Document) Commit() error {
	if d.committed {
		return nil
	}
	if d.open != nil {
		return errOpenSheetLeft
	}
	if err := d.ensurePageTree(); err != nil {
		return err
	}
	d.pagesDict["Kids"] = d.kids
	d.pagesDict["Count"] = types.Integer(len(d.kids))

	root, err := d.ctx.Catalog()
	if err != nil {
		return err
	}
	root["Pages"] = *d.pagesRef
	for _, k := range staleCatalogKeys {
		delete(root, k)
	}

	d.ctx.PageCount = len(d.kids)
	d.committed = true
	return nil
}

// Write commits the document if necessary and serializes it to w.
func (d *Document) Write(w io.Writer) error {
	if err := d.Commit(); err != nil {
		return err
	}
	return pdfapi.WriteContext(d.ctx, w)
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
