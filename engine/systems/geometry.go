package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/math"
)

/** @brief The name of the default geometry. */
const DEFAULT_GEOMETRY_NAME string = "default"

/**
 * @brief Represents the configuration for a geometry: CPU-side vertex and
 * index data ready for a renderer to upload.
 */
type GeometryConfig struct {
	/** @brief The name of the geometry. */
	Name string
	/** @brief The vertices. */
	Vertices []math.Vertex3D
	/** @brief Triangle list indices into Vertices. */
	Indices []uint32
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	MinExtents math.Vec3
	MaxExtents math.Vec3
}

func (gc *GeometryConfig) VertexCount() uint32 {
	return uint32(len(gc.Vertices))
}

func (gc *GeometryConfig) IndexCount() uint32 {
	return uint32(len(gc.Indices))
}

// updateExtents fills in the center and extents from the vertices.
func (gc *GeometryConfig) updateExtents() {
	ext := math.GeometryComputeExtents(gc.Vertices)
	gc.MinExtents = ext.Min
	gc.MaxExtents = ext.Max
	gc.Center = ext.Center()
}

/**
 * @brief Represents an actual geometry in the world.
 */
type Geometry struct {
	ID         core.Handle
	Generation uint16
	Name       string
	Center     math.Vec3
	Extents    math.Extents3D
	Config     *GeometryConfig
}

type geometryReference struct {
	referenceCount uint64
	geometry       *Geometry
	autoRelease    bool
}

/** @brief The geometry system configuration. */
type GeometrySystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of geometries that can be registered.
	 */
	MaxGeometryCount uint32
}

type GeometrySystem struct {
	Config *GeometrySystemConfig

	mu         sync.Mutex
	registered map[string]*geometryReference
	// A 10x10 quad that always exists as a fallback.
	defaultGeometry *Geometry
}

/**
 * @brief Initializes the geometry system.
 *
 * @param config The configuration for this system.
 * @return The geometry system, or an error if the configuration is invalid.
 */
func NewGeometrySystem(config *GeometrySystemConfig) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0: %w", core.ErrConfiguration)
		core.LogError("%s", err)
		return nil, err
	}
	gs := &GeometrySystem{
		Config:     config,
		registered: make(map[string]*geometryReference),
	}
	gs.defaultGeometry = gs.createGeometry(GenerateQuadSpriteConfig(math.NewVec2(10, 10), false, DEFAULT_GEOMETRY_NAME))
	return gs, nil
}

/**
 * @brief Shuts down the geometry system.
 */
func (gs *GeometrySystem) Shutdown() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	for name, ref := range gs.registered {
		gs.destroyGeometry(ref.geometry)
		delete(gs.registered, name)
	}
	return nil
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 * It is safe to call from job workers.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 * @return The acquired geometry.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *GeometryConfig, autoRelease bool) (*Geometry, error) {
	if config == nil || len(config.Vertices) == 0 {
		err := fmt.Errorf("func GeometrySystemAcquireFromConfig - empty geometry config: %w", core.ErrInvalidInput)
		core.LogError("%s", err)
		return nil, err
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if ref, ok := gs.registered[config.Name]; ok {
		ref.referenceCount++
		return ref.geometry, nil
	}
	if uint32(len(gs.registered)) >= gs.Config.MaxGeometryCount {
		err := fmt.Errorf("unable to obtain free slot for geometry '%s'. Adjust configuration to allow more space: %w", config.Name, core.ErrConfiguration)
		core.LogError("%s", err)
		return nil, err
	}

	geometry := gs.createGeometry(config)
	gs.registered[config.Name] = &geometryReference{
		referenceCount: 1,
		geometry:       geometry,
		autoRelease:    autoRelease,
	}
	core.LogDebug("Geometry '%s' registered: %d vertices, %d indices.", config.Name, config.VertexCount(), config.IndexCount())
	return geometry, nil
}

/**
 * @brief Acquires an existing geometry by name.
 */
func (gs *GeometrySystem) AcquireByName(name string) (*Geometry, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if ref, ok := gs.registered[name]; ok {
		ref.referenceCount++
		return ref.geometry, nil
	}
	return nil, fmt.Errorf("geometry '%s': %w", name, core.ErrNotFound)
}

/**
 * @brief Releases a reference to the provided geometry.
 */
func (gs *GeometrySystem) Release(geometry *Geometry) {
	if geometry == nil || !geometry.ID.IsValid() {
		core.LogWarn("geometry_system_release cannot release invalid geometry id. Nothing was done.")
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	ref, ok := gs.registered[geometry.Name]
	if !ok || ref.geometry.ID != geometry.ID {
		core.LogError("Geometry id mismatch. Check registration logic, as this should never occur.")
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if ref.referenceCount < 1 && ref.autoRelease {
		gs.destroyGeometry(ref.geometry)
		delete(gs.registered, geometry.Name)
	}
}

// Count returns the number of registered geometries.
func (gs *GeometrySystem) Count() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.registered)
}

/**
 * @brief Obtains the default geometry.
 */
func (gs *GeometrySystem) GetDefault() *Geometry {
	return gs.defaultGeometry
}

func (gs *GeometrySystem) createGeometry(config *GeometryConfig) *Geometry {
	return &Geometry{
		ID:      core.IdentifierAcquireNewID(config),
		Name:    config.Name,
		Center:  config.Center,
		Extents: math.Extents3D{Min: config.MinExtents, Max: config.MaxExtents},
		Config:  config,
	}
}

func (gs *GeometrySystem) destroyGeometry(geometry *Geometry) {
	if err := core.IdentifierReleaseID(geometry.ID); err != nil {
		core.LogWarn("%s", err)
	}
	geometry.ID = core.InvalidHandle
	geometry.Generation++
	geometry.Config = nil
}

// gridFace describes one grid laid out from corner along the u and v axes
// with the given vertex counts along each.
type gridFace struct {
	corner, u, v math.Vec3
	uCount       uint32
	vCount       uint32
	normal       math.Vec3
}

// appendGridFace writes the face's vertices and indices. Triangles are wound
// counter-clockwise around the face normal. UVs alternate between 0 and 1
// from one vertex to the next so a tiled texture repeats once per cell.
func appendGridFace(config *GeometryConfig, face gridFace) {
	base := uint32(len(config.Vertices))
	for j := uint32(0); j < face.vCount; j++ {
		tv := float32(j) / float32(face.vCount-1)
		for i := uint32(0); i < face.uCount; i++ {
			tu := float32(i) / float32(face.uCount-1)
			position := face.corner.Add(face.u.MulScalar(tu)).Add(face.v.MulScalar(tv))
			config.Vertices = append(config.Vertices, math.Vertex3D{
				Position: position,
				Normal:   face.normal,
				Texcoord: math.NewVec2(float32(i%2), float32(j%2)),
			})
		}
	}

	flip := face.u.Cross(face.v).Dot(face.normal) < 0
	for j := uint32(0); j < face.vCount-1; j++ {
		for i := uint32(0); i < face.uCount-1; i++ {
			q := base + j*face.uCount + i
			a, b, c, d := q, q+1, q+face.uCount+1, q+face.uCount
			if flip {
				config.Indices = append(config.Indices, a, c, b, a, d, c)
			} else {
				config.Indices = append(config.Indices, a, b, c, a, c, d)
			}
		}
	}
}

/**
 * @brief Generates configuration for a square grid on the XZ plane, centered
 * on the origin and facing +Y.
 *
 * @param size The length of each side. Must be non-zero.
 * @param subdivisions The number of extra vertex rows and columns inside the plane.
 * @param name The name of the generated geometry.
 * @return A geometry configuration with (subdivisions+2)^2 vertices.
 */
func GenerateGridPlaneConfig(size float32, subdivisions uint32, name string) *GeometryConfig {
	if size == 0 {
		core.LogWarn("Size must be nonzero. Defaulting to one.")
		size = 1.0
	}
	count := subdivisions + 2
	config := &GeometryConfig{
		Name:     geometryName(name),
		Vertices: make([]math.Vertex3D, 0, count*count),
		Indices:  make([]uint32, 0, (count-1)*(count-1)*6),
	}
	half := size * 0.5
	appendGridFace(config, gridFace{
		corner: math.NewVec3(-half, 0, -half),
		u:      math.NewVec3(size, 0, 0),
		v:      math.NewVec3(0, 0, size),
		uCount: count,
		vCount: count,
		normal: math.NewVec3Up(),
	})
	config.updateExtents()
	return config
}

/**
 * @brief Generates configuration for an axis-aligned box centered on the
 * origin whose six faces are grids with outward normals.
 *
 * @param size The size of the box along each axis. Zero components default to one.
 * @param subdivisions Extra vertex rows per axis (x, y, z).
 * @param name The name of the generated geometry.
 */
func GenerateGridBoxConfig(size math.Vec3, subdivisions [3]uint32, name string) *GeometryConfig {
	if size.X == 0 || size.Y == 0 || size.Z == 0 {
		core.LogWarn("Box size components must be nonzero. Defaulting zero components to one.")
		if size.X == 0 {
			size.X = 1
		}
		if size.Y == 0 {
			size.Y = 1
		}
		if size.Z == 0 {
			size.Z = 1
		}
	}
	nx, ny, nz := subdivisions[0]+2, subdivisions[1]+2, subdivisions[2]+2
	config := &GeometryConfig{
		Name:     geometryName(name),
		Vertices: make([]math.Vertex3D, 0, 2*(nx*nz+ny*nz+nx*ny)),
		Indices:  make([]uint32, 0, 12*((nx-1)*(nz-1)+(ny-1)*(nz-1)+(nx-1)*(ny-1))),
	}

	h := size.MulScalar(0.5)
	x := math.NewVec3(size.X, 0, 0)
	y := math.NewVec3(0, size.Y, 0)
	z := math.NewVec3(0, 0, size.Z)
	faces := []gridFace{
		{corner: math.NewVec3(-h.X, h.Y, -h.Z), u: x, v: z, uCount: nx, vCount: nz, normal: math.NewVec3(0, 1, 0)},
		{corner: math.NewVec3(-h.X, -h.Y, -h.Z), u: x, v: z, uCount: nx, vCount: nz, normal: math.NewVec3(0, -1, 0)},
		{corner: math.NewVec3(-h.X, -h.Y, h.Z), u: x, v: y, uCount: nx, vCount: ny, normal: math.NewVec3(0, 0, 1)},
		{corner: math.NewVec3(-h.X, -h.Y, -h.Z), u: x, v: y, uCount: nx, vCount: ny, normal: math.NewVec3(0, 0, -1)},
		{corner: math.NewVec3(h.X, -h.Y, -h.Z), u: z, v: y, uCount: nz, vCount: ny, normal: math.NewVec3(1, 0, 0)},
		{corner: math.NewVec3(-h.X, -h.Y, -h.Z), u: z, v: y, uCount: nz, vCount: ny, normal: math.NewVec3(-1, 0, 0)},
	}
	for _, face := range faces {
		appendGridFace(config, face)
	}
	config.updateExtents()
	return config
}

/**
 * @brief Generates configuration for a camera-facing sprite quad in the XY
 * plane, visible from both sides.
 *
 * @param size Width and height of the quad.
 * @param flipped Mirrors the texture horizontally.
 * @param name The name of the generated geometry.
 */
func GenerateQuadSpriteConfig(size math.Vec2, flipped bool, name string) *GeometryConfig {
	ex, ey := size.X*0.5, size.Y*0.5
	uLeft, uRight := float32(0), float32(1)
	if flipped {
		uLeft, uRight = 1, 0
	}
	normal := math.NewVec3Back()

	config := &GeometryConfig{
		Name: geometryName(name),
		Vertices: []math.Vertex3D{
			{Position: math.NewVec3(-ex, -ey, 0), Normal: normal, Texcoord: math.NewVec2(uLeft, 1)},
			{Position: math.NewVec3(-ex, ey, 0), Normal: normal, Texcoord: math.NewVec2(uLeft, 0)},
			{Position: math.NewVec3(ex, ey, 0), Normal: normal, Texcoord: math.NewVec2(uRight, 0)},
			{Position: math.NewVec3(ex, -ey, 0), Normal: normal, Texcoord: math.NewVec2(uRight, 1)},
		},
		// Front pair faces +Z, the back pair repeats them wound the other way.
		Indices: []uint32{0, 2, 1, 0, 3, 2, 2, 0, 1, 3, 0, 2},
	}
	config.updateExtents()
	return config
}

func geometryName(name string) string {
	if len(name) > 0 {
		return name
	}
	return DEFAULT_GEOMETRY_NAME
}
