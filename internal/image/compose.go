package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	cardBandRatio = 0.18
	cardMargin    = 12
)

// ComposeShareCard lays out a rendered poster above a footer band holding
// label on the left and the share QR code on the right. qr may be nil.
func ComposeShareCard(posterImg image.Image, qr image.Image, label string) (image.Image, error) {
	pb := posterImg.Bounds()
	band := int(float64(pb.Dy()) * cardBandRatio)
	card := imaging.New(pb.Dx(), pb.Dy()+band, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	card = imaging.Paste(card, posterImg, image.Pt(0, 0))

	qrSide := band - 2*cardMargin
	if qr != nil && qrSide > 0 {
		q := imaging.Resize(qr, qrSide, qrSide, imaging.NearestNeighbor)
		card = imaging.Paste(card, q, image.Pt(pb.Dx()-cardMargin-qrSide, pb.Dy()+cardMargin))
	}

	if label != "" {
		face, err := captionFace(float64(band)/4, false)
		if err != nil {
			return nil, err
		}
		dc := gg.NewContextForImage(card)
		dc.SetFontFace(face)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, cardMargin*2, float64(pb.Dy())+float64(band)/2, 0, 0.5)
		return dc.Image(), nil
	}
	return card, nil
}
