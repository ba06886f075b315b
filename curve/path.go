package curve

import (
	"math"
	"strconv"
	"strings"
)

type Op byte

const (
	OpMoveTo  Op = 'M'
	OpLineTo  Op = 'L'
	OpCubicTo Op = 'C'
	OpClose   Op = 'Z'
)

type Command struct {
	Op  Op
	Pts []Point
}

// Path is an immutable vector path. It is only built inside this package.
type Path struct {
	cmds []Command
}

func (p *Path) moveTo(x, y float64) {
	p.cmds = append(p.cmds, Command{Op: OpMoveTo, Pts: []Point{{x, y}}})
}

func (p *Path) lineTo(x, y float64) {
	p.cmds = append(p.cmds, Command{Op: OpLineTo, Pts: []Point{{x, y}}})
}

func (p *Path) cubicTo(x1, y1, x2, y2, x, y float64) {
	p.cmds = append(p.cmds, Command{Op: OpCubicTo, Pts: []Point{{x1, y1}, {x2, y2}, {x, y}}})
}

func (p *Path) close() {
	p.cmds = append(p.cmds, Command{Op: OpClose})
}

func (p *Path) Commands() []Command {
	cmds := make([]Command, len(p.cmds))
	copy(cmds, p.cmds)

	return cmds
}

func (p *Path) String() string {
	var ss strings.Builder

	for _, cmd := range p.cmds {
		ss.WriteByte(byte(cmd.Op))

		for idx, pt := range cmd.Pts {
			if idx > 0 {
				ss.WriteByte(',')
			}

			ss.WriteString(formatCoord(pt.X))
			ss.WriteByte(',')
			ss.WriteString(formatCoord(pt.Y))
		}
	}

	return ss.String()
}

// Flatten approximates the path with a polyline, splitting every cubic into steps pieces.
func (p *Path) Flatten(steps int) (pts []Point) {
	if steps < 1 {
		steps = 1
	}

	var cur, start Point

	for _, cmd := range p.cmds {
		switch cmd.Op {
		case OpMoveTo:
			cur = cmd.Pts[0]
			start = cur
			pts = append(pts, cur)
		case OpLineTo:
			cur = cmd.Pts[0]
			pts = append(pts, cur)
		case OpCubicTo:
			for i := 1; i <= steps; i++ {
				pts = append(pts, cubicAt(cur, cmd.Pts[0], cmd.Pts[1], cmd.Pts[2], float64(i)/float64(steps)))
			}

			cur = cmd.Pts[2]
		case OpClose:
			if cur != start {
				pts = append(pts, start)
			}

			cur = start
		}
	}

	return
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t

	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func formatCoord(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// basisBuilder emits a uniform cubic B-spline through the pushed points.
// The curve starts and ends on the first and last point but only passes near the interior ones.
type basisBuilder struct {
	path  *Path
	point int

	x0, y0 float64
	x1, y1 float64
}

func newBasisBuilder() *basisBuilder {
	return &basisBuilder{
		path: &Path{},
	}
}

func (b *basisBuilder) push(x, y float64) {
	switch b.point {
	case 0:
		b.point = 1
		b.path.moveTo(x, y)
	case 1:
		b.point = 2
	case 2:
		b.point = 3
		b.path.lineTo((5*b.x0+b.x1)/6, (5*b.y0+b.y1)/6)
		b.segment(x, y)
	default:
		b.segment(x, y)
	}

	b.x0, b.x1 = b.x1, x
	b.y0, b.y1 = b.y1, y
}

func (b *basisBuilder) segment(x, y float64) {
	b.path.cubicTo(
		(2*b.x0+b.x1)/3, (2*b.y0+b.y1)/3,
		(b.x0+2*b.x1)/3, (b.y0+2*b.y1)/3,
		(b.x0+4*b.x1+x)/6, (b.y0+4*b.y1+y)/6,
	)
}

func (b *basisBuilder) finish() *Path {
	switch b.point {
	case 3:
		b.segment(b.x1, b.y1)

		fallthrough
	case 2:
		b.path.lineTo(b.x1, b.y1)
	case 1:
		b.path.close()
	}

	return b.path
}
