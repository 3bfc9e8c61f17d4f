package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/mesh"
)

/**
 * @brief Reads the triangle subset of a Wavefront OBJ stream.
 *
 * Recognised records are "v x y z", "vn x y z", "vt u v" and
 * "f p/t/n p/t/n p/t/n" with 1-based indices; fields are separated by a
 * single space and every other record is ignored. Each face is inserted into
 * the returned graph as soon as it is read. The first malformed record aborts
 * the whole parse.
 */
func ParseOBJ(r io.Reader) (*mesh.Attributes, *mesh.Graph, error) {
	attrs := mesh.NewAttributes()
	graph := mesh.NewGraph()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Split(strings.TrimSuffix(scanner.Text(), "\r"), " ")

		var err error
		switch fields[0] {
		case "v":
			err = readVector(&attrs.Positions, fields, 3, line)
		case "vn":
			err = readVector(&attrs.Normals, fields, 3, line)
		case "vt":
			err = readVector(&attrs.Texcoords, fields, 2, line)
		case "f":
			err = readTriangle(attrs, graph, fields, line)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		// the scanner stops on the line it could not read
		return nil, nil, &core.ParseError{
			Line:   line + 1,
			Reason: "unreadable line",
			Err:    err,
		}
	}
	return attrs, graph, nil
}

// LoadOBJ parses r and welds the result.
func LoadOBJ(r io.Reader, strategy mesh.WeldStrategy) (*mesh.OutputMesh, error) {
	attrs, graph, err := ParseOBJ(r)
	if err != nil {
		return nil, err
	}
	return mesh.Weld(graph, attrs, strategy)
}

func readVector(pool *mesh.AttributePool, fields []string, size int, line int) error {
	if len(fields)-1 != size {
		return &core.ParseError{
			Line:   line,
			Record: fields[0],
			Reason: fmt.Sprintf("expected %d values, got %d", size, len(fields)-1),
		}
	}

	var vec [3]float32
	for i := 0; i < size; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return &core.ParseError{
				Line:   line,
				Record: fields[0],
				Reason: fmt.Sprintf("invalid value %q", fields[i+1]),
				Err:    err,
			}
		}
		vec[i] = float32(f)
	}
	pool.Append(math.NewVec3(vec[0], vec[1], vec[2]))
	return nil
}

func readTriangle(attrs *mesh.Attributes, graph *mesh.Graph, fields []string, line int) error {
	if len(fields)-1 != 3 {
		return &core.ParseError{
			Line:   line,
			Record: "f",
			Reason: fmt.Sprintf("expected 3 corners, got %d (only triangles are supported)", len(fields)-1),
		}
	}

	var corners [3]mesh.FaceCorner
	for i := range corners {
		c, err := readCorner(fields[i+1], line)
		if err != nil {
			return err
		}
		if err := attrs.Validate(c); err != nil {
			var ie *core.IndexError
			if errors.As(err, &ie) {
				ie.Line = line
			}
			return err
		}
		corners[i] = c
	}

	graph.Insert(corners[0], corners[1], corners[2])
	return nil
}

// readCorner decodes "position/texcoord/normal" into 0-based indices.
func readCorner(field string, line int) (mesh.FaceCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) != 3 {
		return mesh.FaceCorner{}, &core.ParseError{
			Line:   line,
			Record: "f",
			Reason: fmt.Sprintf("corner %q must be position/texcoord/normal", field),
		}
	}

	var idx [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return mesh.FaceCorner{}, &core.ParseError{
				Line:   line,
				Record: "f",
				Reason: fmt.Sprintf("invalid index %q in corner %q", p, field),
				Err:    err,
			}
		}
		idx[i] = v - 1
	}

	return mesh.FaceCorner{
		Position: idx[0],
		Texcoord: idx[1],
		Normal:   idx[2],
	}, nil
}
