package scene

import "math"

// Perlin implements classic 3D gradient noise with a 512-entry doubled
// permutation table, matching Ken Perlin's reference construction.
type Perlin struct {
	hash [512]int
}

var basePermutation = [256]int{
	151, 160, 137, 91, 90, 15,
	131, 13, 201, 95, 96, 53, 194, 233, 7, 225, 140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23,
	190, 6, 148, 247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32, 57, 177, 33,
	88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175, 74, 165, 71, 134, 139, 48, 27, 166,
	77, 146, 158, 231, 83, 111, 229, 122, 60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244,
	102, 143, 54, 65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169, 200, 196,
	135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64, 52, 217, 226, 250, 124, 123,
	5, 202, 38, 147, 118, 126, 255, 82, 85, 212, 207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42,
	223, 183, 170, 213, 119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104, 218, 246, 97, 228,
	251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241, 81, 51, 145, 235, 249, 14, 239, 107,
	49, 192, 214, 31, 181, 199, 106, 157, 184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254,
	138, 236, 205, 93, 222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// NewPerlin builds a Perlin noise generator with the fixed reference
// permutation table doubled to avoid index-wrap branches.
func NewPerlin() *Perlin {
	p := &Perlin{}
	for i := 0; i < 512; i++ {
		p.hash[i] = basePermutation[i%256]
	}
	return p
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func gradient(hash int, x, y, z float64) float64 {
	switch hash & 0xF {
	case 0x0:
		return x + y
	case 0x1:
		return -x + y
	case 0x2:
		return x - y
	case 0x3:
		return -x - y
	case 0x4:
		return x + z
	case 0x5:
		return -x + z
	case 0x6:
		return x - z
	case 0x7:
		return -x - z
	case 0x8:
		return y + z
	case 0x9:
		return -y + z
	case 0xA:
		return y - z
	case 0xB:
		return -y - z
	case 0xC:
		return y + x
	case 0xD:
		return -y + z
	case 0xE:
		return y - x
	default:
		return -y - z
	}
}

func incrementMod256(v int) int { return (v + 1) & 255 }

// Noise evaluates Perlin noise at (x, y, z), mapped to the range [0, 1].
func (p *Perlin) Noise(x, y, z float64) float64 {
	unitX := int(math.Floor(x)) & 255
	unitY := int(math.Floor(y)) & 255
	unitZ := int(math.Floor(z)) & 255

	decimalX := x - math.Floor(x)
	decimalY := y - math.Floor(y)
	decimalZ := z - math.Floor(z)

	weightX := fade(decimalX)
	weightY := fade(decimalY)
	weightZ := fade(decimalZ)

	h := p.hash
	dot000 := h[h[h[unitX]+unitY]+unitZ]
	dot001 := h[h[h[unitX]+unitY]+incrementMod256(unitZ)]
	dot010 := h[h[h[unitX]+incrementMod256(unitY)]+unitZ]
	dot011 := h[h[h[unitX]+incrementMod256(unitY)]+incrementMod256(unitZ)]
	dot100 := h[h[h[incrementMod256(unitX)]+unitY]+unitZ]
	dot101 := h[h[h[incrementMod256(unitX)]+unitY]+incrementMod256(unitZ)]
	dot110 := h[h[h[incrementMod256(unitX)]+incrementMod256(unitY)]+unitZ]
	dot111 := h[h[h[incrementMod256(unitX)]+incrementMod256(unitY)]+incrementMod256(unitZ)]

	x1 := lerp(gradient(dot000, decimalX, decimalY, decimalZ),
		gradient(dot100, decimalX-1, decimalY, decimalZ), weightX)
	x2 := lerp(gradient(dot010, decimalX, decimalY-1, decimalZ),
		gradient(dot110, decimalX-1, decimalY-1, decimalZ), weightX)
	y1 := lerp(x1, x2, weightY)

	x1 = lerp(gradient(dot001, decimalX, decimalY, decimalZ-1),
		gradient(dot101, decimalX-1, decimalY, decimalZ-1), weightX)
	x2 = lerp(gradient(dot011, decimalX, decimalY-1, decimalZ-1),
		gradient(dot111, decimalX-1, decimalY-1, decimalZ-1), weightX)
	y2 := lerp(x1, x2, weightY)

	return (lerp(y1, y2, weightZ) + 1) / 2
}

// Turbulence sums several octaves of absolute noise, producing the
// higher-frequency fractal pattern used by marble/wood style textures.
func (p *Perlin) Turbulence(x, y, z float64, depth int) float64 {
	accum := 0.0
	px, py, pz := x, y, z
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * math.Abs(p.Noise(px, py, pz)*2-1)
		weight *= 0.5
		px, py, pz = px*2, py*2, pz*2
	}
	return accum
}
