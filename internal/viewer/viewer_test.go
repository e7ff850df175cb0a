package viewer

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/contrastanim/internal/animation"
	"github.com/san-kum/contrastanim/internal/gallery"
	"github.com/san-kum/contrastanim/internal/scheduler"
	"github.com/san-kum/contrastanim/internal/upload"
)

func pngFile(name string) upload.File {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)))).To(Succeed())
	return upload.File{Name: name, ContentType: "image/png", Data: buf.Bytes()}
}

var _ = Describe("Viewer", func() {
	var (
		src *scheduler.ManualSource
		v   *Viewer
		dec *upload.Decoder
	)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	load := func(files ...upload.File) bool {
		images, batch, ok := v.BeginUpload(files)
		if !ok {
			return false
		}
		decoded, err := dec.Decode(context.Background(), images)
		return v.FinishUpload(batch, decoded, err)
	}

	drain := func() []string {
		var out []string
		for {
			n, ok := v.Notice()
			if !ok {
				return out
			}
			out = append(out, n)
		}
	}

	BeforeEach(func() {
		src = scheduler.NewManualSource()
		anim := animation.New(src, scheduler.DefaultMinInterval, quiet)
		v = New(anim, gallery.New(), quiet)
		dec = upload.NewDecoder(2, quiet)
	})

	Describe("uploads", func() {
		It("warns and changes nothing when no images are selected", func() {
			Expect(load(upload.File{Name: "a.txt", ContentType: "text/plain"})).To(BeFalse())
			Expect(v.Gallery().Empty()).To(BeTrue())
			Expect(v.Loading()).To(BeFalse())
			Expect(drain()).To(ConsistOf(noImagesNotice))
		})

		It("replaces the collection and resets the animation", func() {
			v.Animation().SetValue(60)
			v.Animation().Start()

			Expect(load(pngFile("a.png"), pngFile("b.png"))).To(BeTrue())
			Expect(v.Gallery().Len()).To(Equal(2))
			Expect(v.Gallery().Selected()).To(Equal(0))
			Expect(v.Animation().Phase()).To(Equal(animation.Stopped))
			Expect(v.Animation().Value()).To(BeZero())
			Expect(drain()).To(ConsistOf("2 images loaded"))
		})

		It("skips non-image files in a mixed selection", func() {
			Expect(load(pngFile("a.png"), upload.File{Name: "x.txt", ContentType: "text/plain"})).To(BeTrue())
			Expect(v.Gallery().Len()).To(Equal(1))
			Expect(v.LoadedLabel()).To(Equal("1 image loaded"))
		})

		It("keeps the previous collection when one decode fails", func() {
			Expect(load(pngFile("old.png"))).To(BeTrue())
			v.Animation().SetValue(33)
			drain()

			broken := upload.File{Name: "two.png", ContentType: "image/png", Data: []byte("garbage")}
			Expect(load(pngFile("one.png"), broken, pngFile("three.png"))).To(BeFalse())

			Expect(v.Gallery().Len()).To(Equal(1))
			img, _ := v.Gallery().Current()
			Expect(img.Name).To(Equal("old.png"))
			Expect(v.Animation().Value()).To(Equal(33.0))
			Expect(drain()).To(ConsistOf(ContainSubstring("two.png")))
		})

		It("drops a superseded batch", func() {
			first, b1, _ := v.BeginUpload([]upload.File{pngFile("first.png")})
			second, b2, _ := v.BeginUpload([]upload.File{pngFile("second.png")})

			d2, err := dec.Decode(context.Background(), second)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.FinishUpload(b2, d2, nil)).To(BeTrue())

			d1, err := dec.Decode(context.Background(), first)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.FinishUpload(b1, d1, nil)).To(BeFalse())

			img, _ := v.Gallery().Current()
			Expect(img.Name).To(Equal("second.png"))
		})

		It("drops a batch that finishes after clear", func() {
			files, batch, _ := v.BeginUpload([]upload.File{pngFile("late.png")})
			v.Clear()
			decoded, _ := dec.Decode(context.Background(), files)
			Expect(v.FinishUpload(batch, decoded, nil)).To(BeFalse())
			Expect(v.Gallery().Empty()).To(BeTrue())
		})
	})

	Describe("clear", func() {
		It("resets collection, animation and magnifier", func() {
			load(pngFile("a.png"), pngFile("b.png"), pngFile("c.png"))
			v.Select(2)
			v.ToggleExpanded()
			v.ToggleMagnifier()
			v.MoveProbe(10, 10, 40, 40)
			v.Animation().SetValue(80)
			v.Animation().Start()

			v.Clear()

			Expect(v.Gallery().Empty()).To(BeTrue())
			Expect(v.Gallery().Selected()).To(Equal(0))
			Expect(v.Animation().Phase()).To(Equal(animation.Stopped))
			Expect(v.Animation().Value()).To(BeZero())
			Expect(v.Magnifier()).To(BeFalse())
			Expect(v.Probe()).To(Equal(Point{}))
			Expect(v.Expanded()).To(BeFalse())
		})

		It("selects the first image of the next upload", func() {
			load(pngFile("a.png"), pngFile("b.png"), pngFile("c.png"))
			v.Select(2)
			v.Clear()
			load(pngFile("d.png"))
			Expect(v.Gallery().Selected()).To(Equal(0))
			Expect(v.Position()).To(Equal("1 of 1"))
		})
	})

	Describe("expanded view keyboard", func() {
		BeforeEach(func() {
			load(pngFile("a.png"), pngFile("b.png"), pngFile("c.png"))
		})

		It("is inactive until expanded", func() {
			Expect(v.HandleKey(KeyRight)).To(BeFalse())
			Expect(v.Gallery().Selected()).To(Equal(0))
		})

		It("navigates with wrap-around and exits on escape", func() {
			Expect(v.ToggleExpanded()).To(BeTrue())
			Expect(v.HandleKey(KeyLeft)).To(BeTrue())
			Expect(v.Gallery().Selected()).To(Equal(2))
			Expect(v.HandleKey(KeyRight)).To(BeTrue())
			Expect(v.Gallery().Selected()).To(Equal(0))
			Expect(v.HandleKey(KeyOther)).To(BeFalse())
			Expect(v.HandleKey(KeyEscape)).To(BeTrue())
			Expect(v.Expanded()).To(BeFalse())
		})
	})

	It("cannot expand without images", func() {
		Expect(v.ToggleExpanded()).To(BeFalse())
		Expect(v.Expanded()).To(BeFalse())
	})

	It("toggles the toolbar", func() {
		Expect(v.Toolbar()).To(BeTrue())
		Expect(v.ToggleToolbar()).To(BeFalse())
	})

	Describe("magnifier probe", func() {
		It("only tracks while active", func() {
			Expect(v.MoveProbe(5, 5, 10, 10)).To(BeFalse())
			v.ToggleMagnifier()
			Expect(v.MoveProbe(5, 5, 10, 10)).To(BeTrue())
			Expect(v.ProbeVisible()).To(BeTrue())
		})

		It("ignores positions outside the image", func() {
			v.ToggleMagnifier()
			v.MoveProbe(3, 4, 10, 10)
			Expect(v.MoveProbe(11, 4, 10, 10)).To(BeFalse())
			Expect(v.MoveProbe(3, -1, 10, 10)).To(BeFalse())
			Expect(v.Probe()).To(Equal(Point{3, 4}))
		})

		It("hides the lens at the origin and after leaving", func() {
			v.ToggleMagnifier()
			v.MoveProbe(0, 5, 10, 10)
			Expect(v.ProbeVisible()).To(BeFalse())
			v.MoveProbe(5, 5, 10, 10)
			v.LeaveProbe()
			Expect(v.ProbeVisible()).To(BeFalse())
		})
	})

	It("tears down the animation", func() {
		v.Animation().Start()
		Expect(src.Pending()).NotTo(BeZero())
		v.Teardown()
		Expect(src.Pending()).To(BeZero())
		Expect(v.Animation().Ticking()).To(BeFalse())
	})
})
