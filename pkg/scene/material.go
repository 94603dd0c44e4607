package scene

// Face indices of a region solid. A solid has exactly FaceCount colorable
// faces, matching the mesh group material indices.
const (
	FaceTop   = 0
	FaceSide  = 1
	FaceCount = 2
)

// Default colors and opacities of the map.
var (
	DefaultTopColor       = MustParseColor("#2defff")
	DefaultSideColor      = MustParseColor("#3480C4")
	DefaultHighlightColor = MustParseColor("#ff0000")
	DefaultOutlineColor   = MustParseColor("#ffffff")
)

const (
	DefaultTopOpacity  = 0.6
	DefaultSideOpacity = 0.5
)

// Material is the visual state of one face.
type Material struct {
	Color       Color   `json:"color"`
	Opacity     float64 `json:"opacity"`
	Transparent bool    `json:"transparent"`
}

// Materials holds one material per face of a region solid.
type Materials [FaceCount]Material

// FaceColors holds one color per face of a region solid.
type FaceColors [FaceCount]Color

// DefaultMaterials returns the top and side materials regions start with.
func DefaultMaterials() Materials {
	return Materials{
		FaceTop:  {Color: DefaultTopColor, Opacity: DefaultTopOpacity, Transparent: true},
		FaceSide: {Color: DefaultSideColor, Opacity: DefaultSideOpacity, Transparent: true},
	}
}

// Colors returns the color of each face.
func (m Materials) Colors() FaceColors {
	var fc FaceColors
	for i := range m {
		fc[i] = m[i].Color
	}
	return fc
}

// Uniform returns face colors with every face set to c.
func Uniform(c Color) FaceColors {
	var fc FaceColors
	for i := range fc {
		fc[i] = c
	}
	return fc
}
