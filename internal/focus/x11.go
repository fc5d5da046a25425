package focus

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Provider captures and restores focus over the X protocol using EWMH
// window-manager hints.
type X11Provider struct {
	logger *slog.Logger
	conn   *xgb.Conn
	root   xproto.Window
	atoms  map[string]xproto.Atom
}

var x11AtomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// NewX11Provider connects to the X server and interns the EWMH atoms.
func NewX11Provider(logger *slog.Logger) (*X11Provider, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	atoms := make(map[string]xproto.Atom, len(x11AtomNames))
	for _, name := range x11AtomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("intern atom %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}

	return &X11Provider{logger: logger, conn: conn, root: root, atoms: atoms}, nil
}

// Close releases the X server connection.
func (p *X11Provider) Close() {
	p.conn.Close()
}

// Capture reads _NET_ACTIVE_WINDOW from the root window. A zero window id
// means nothing holds focus and yields a nil snapshot.
func (p *X11Provider) Capture(_ context.Context) (*Snapshot, error) {
	data, err := p.getProperty(p.root, p.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return nil, fmt.Errorf("read _NET_ACTIVE_WINDOW: %w", err)
	}
	if len(data) < 4 {
		return nil, nil
	}

	window := xproto.Window(binary.LittleEndian.Uint32(data))
	if window == 0 {
		return nil, nil
	}

	return &Snapshot{
		Handle: formatWindowHandle(window),
		App:    p.windowApp(window),
	}, nil
}

// Activate asks the window manager to raise and focus the captured window
// with an EWMH _NET_ACTIVE_WINDOW client message.
func (p *X11Provider) Activate(_ context.Context, snap Snapshot) error {
	window, err := parseWindowHandle(snap.Handle)
	if err != nil {
		return err
	}

	event := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   p.atoms["_NET_ACTIVE_WINDOW"],
		// source indication 2 = direct user action (pager semantics)
		Data: xproto.ClientMessageDataUnionData32New([]uint32{2, 0, 0, 0, 0}),
	}

	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	cookie := xproto.SendEventChecked(p.conn, false, p.root, mask, string(event.Bytes()))
	if err := cookie.Check(); err != nil {
		return fmt.Errorf("send _NET_ACTIVE_WINDOW for %s: %w", snap.Handle, err)
	}
	return nil
}

// windowApp resolves a best-effort application label for logging.
func (p *X11Provider) windowApp(window xproto.Window) string {
	if data, err := p.getProperty(window, p.atoms["WM_CLASS"], xproto.AtomString, 256); err == nil {
		if class := parseWMClass(data); class != "" {
			return class
		}
	}
	if data, err := p.getProperty(window, p.atoms["_NET_WM_NAME"], p.atoms["UTF8_STRING"], 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	if data, err := p.getProperty(window, p.atoms["WM_NAME"], xproto.AtomString, 256); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (p *X11Provider) getProperty(window xproto.Window, atom xproto.Atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(p.conn, false, window, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// parseWMClass extracts the class (second field) from a WM_CLASS payload of
// two NUL-terminated strings.
func parseWMClass(data []byte) string {
	fields := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(fields) == 2 && fields[1] != "" {
		return fields[1]
	}
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func formatWindowHandle(window xproto.Window) string {
	return "0x" + strconv.FormatUint(uint64(window), 16)
}

func parseWindowHandle(handle string) (xproto.Window, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(handle, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse window handle %q: %w", handle, err)
	}
	return xproto.Window(value), nil
}
