package catalog

// Mount identifies a lens mount family. The set is closed: a camera or lens
// naming a mount not listed here fails catalog validation.
type Mount string

const (
	MountCanonEF         Mount = "canon-ef"
	MountCanonRF         Mount = "canon-rf"
	MountSonyE           Mount = "sony-e"
	MountNikonZ          Mount = "nikon-z"
	MountFujifilmX       Mount = "fujifilm-x"
	MountFujifilmG       Mount = "fujifilm-g"
	MountMicroFourThirds Mount = "mft"
	MountHasselbladXCD   Mount = "hasselblad-xcd"
	MountPhaseOneRS      Mount = "phaseone-rs"
	MountPL              Mount = "pl"
	MountLargeFormat     Mount = "large-format"
	MountDJIDL           Mount = "dji-dl"

	// Integrated drone cameras. The "lens" is the fixed optical module of
	// one camera variant.
	MountDJIMavic3Pro     Mount = "dji-mavic3-pro"
	MountDJIMavic3Classic Mount = "dji-mavic3-classic"
	MountDJIMavic2Pro     Mount = "dji-mavic2-pro"
)

// acceptedMounts lists, per body mount, the lens mounts it takes natively
// or through a common adapter.
var acceptedMounts = map[Mount][]Mount{
	MountCanonEF:         {MountCanonEF},
	MountCanonRF:         {MountCanonRF},
	MountSonyE:           {MountSonyE},
	MountNikonZ:          {MountNikonZ},
	MountFujifilmX:       {MountFujifilmX},
	MountFujifilmG:       {MountFujifilmG},
	MountMicroFourThirds: {MountMicroFourThirds},
	MountHasselbladXCD:   {MountHasselbladXCD},
	MountPhaseOneRS:      {MountPhaseOneRS},
	MountPL:              {MountPL, MountCanonEF},
	MountLargeFormat:     {MountLargeFormat},
	MountDJIDL:           {MountDJIDL},

	MountDJIMavic3Pro:     {MountDJIMavic3Pro},
	MountDJIMavic3Classic: {MountDJIMavic3Classic},
	MountDJIMavic2Pro:     {MountDJIMavic2Pro},
}

// Valid reports whether m is a known mount family.
func (m Mount) Valid() bool {
	_, ok := acceptedMounts[m]
	return ok
}

// Accepts reports whether a body with mount m takes lenses of mount lens.
func (m Mount) Accepts(lens Mount) bool {
	for _, a := range acceptedMounts[m] {
		if a == lens {
			return true
		}
	}
	return false
}

// IsCompatible reports whether lens can be used on camera: the body mount
// must accept the lens mount, and the lens must cover the camera's sensor
// type (an APS-C only lens does not fit a full frame body).
func IsCompatible(camera Camera, lens Lens) bool {
	if !camera.Mount.Accepts(lens.Mount) {
		return false
	}
	for _, st := range lens.CompatibleWith {
		if st == camera.SensorType {
			return true
		}
	}
	return false
}
