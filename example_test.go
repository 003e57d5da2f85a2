package hike_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/manoeldesouza/hike"
)

// ExampleServer registers one dynamic page and fetches it over a raw TCP
// connection.
func ExampleServer() {
	dir, err := os.MkdirTemp("", "hike")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)
	page := []byte("<html><!-- [Greeting] --></html>")
	if err := os.WriteFile(filepath.Join(dir, "index.html"), page, 0o644); err != nil {
		fmt.Println(err)
		return
	}

	srv := hike.New("127.0.0.1", 0)
	if err := srv.SetRootDir(dir); err != nil {
		fmt.Println(err)
		return
	}
	err = srv.InsertDynamicPage(hike.DynamicPage{
		URL: "/",
		Anchors: []hike.Anchor{
			{Marker: "<!-- [Greeting] -->", Func: func() (string, error) { return "Hello", nil }},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Println(err)
		return
	}
	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		fmt.Println(err)
		return
	}
	io.WriteString(c, "GET / HTTP/1.1\r\nHost: example\r\n\r\n")
	raw, _ := io.ReadAll(c)
	c.Close()

	body := raw[bytes.Index(raw, []byte("\r\n\r\n"))+4:]
	fmt.Println(string(body))
	// Output:
	// <html>Hello</html>
}
