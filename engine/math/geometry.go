package math

/**
 * @brief Assigns each triangle's face normal to its three vertices.
 * Triangles are wound counter-clockwise when seen from the side the normal
 * points to.
 * NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
 */
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2).Normalize()

		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

/**
 * @brief Returns the axis-aligned extents enclosing every vertex position.
 * An empty slice yields zero extents.
 */
func GeometryComputeExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		ext.Min = ext.Min.Min(v.Position)
		ext.Max = ext.Max.Max(v.Position)
	}
	return ext
}

func Vertex3DEqual(vert0 Vertex3D, vert1 Vertex3D) bool {
	return vert0.Position.Compare(vert1.Position, K_FLOAT_EPSILON) &&
		vert0.Normal.Compare(vert1.Normal, K_FLOAT_EPSILON) &&
		kabs(vert0.Texcoord.X-vert1.Texcoord.X) <= K_FLOAT_EPSILON &&
		kabs(vert0.Texcoord.Y-vert1.Texcoord.Y) <= K_FLOAT_EPSILON
}
