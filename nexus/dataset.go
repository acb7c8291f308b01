package nexus

// Data type names carried by datasets. Dtype is descriptive: any value
// other than DtypeString marks a numeric dataset.
const (
	DtypeFloat64 = "float64"
	DtypeInt64   = "int64"
	DtypeString  = "string"
)

// Dataset is a leaf node holding a typed array value. Values are either
// numeric (stored as float64 regardless of dtype) or strings. A nil shape
// marks a scalar; a [1] shape is a one-element array, which renders
// differently.
type Dataset struct {
	name  string
	attrs Attrs
	dtype string
	shape []int
	nums  []float64
	strs  []string
}

// NewNumeric creates a numeric dataset with an explicit dtype and shape.
// A nil shape with more than one value adopts the value count as a
// one-dimensional shape.
func NewNumeric(name, dtype string, shape []int, values []float64, attrs Attrs) *Dataset {
	if dtype == "" || dtype == DtypeString {
		dtype = DtypeFloat64
	}
	return &Dataset{
		name:  name,
		attrs: attrs,
		dtype: dtype,
		shape: normalizeShape(shape, len(values)),
		nums:  values,
	}
}

// NewScalar creates a scalar float64 dataset.
func NewScalar(name string, value float64, attrs Attrs) *Dataset {
	return &Dataset{name: name, attrs: attrs, dtype: DtypeFloat64, nums: []float64{value}}
}

// NewStrings creates a string-array dataset.
func NewStrings(name string, shape []int, values []string, attrs Attrs) *Dataset {
	return &Dataset{
		name:  name,
		attrs: attrs,
		dtype: DtypeString,
		shape: normalizeShape(shape, len(values)),
		strs:  values,
	}
}

// NewString creates a scalar string dataset.
func NewString(name, value string, attrs Attrs) *Dataset {
	return &Dataset{name: name, attrs: attrs, dtype: DtypeString, strs: []string{value}}
}

// shape stays nil for scalars so Ndim distinguishes "x" from ["x"]
func normalizeShape(shape []int, n int) []int {
	if len(shape) == 0 {
		if n > 1 {
			return []int{n}
		}
		return nil
	}
	if size := shapeSize(shape); size != n {
		return []int{n}
	}
	return shape
}

func shapeSize(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Kind returns KindDataset.
func (d *Dataset) Kind() Kind { return KindDataset }

// Attrs returns the dataset's attributes.
func (d *Dataset) Attrs() Attrs { return d.attrs }

// Dtype returns the declared data type name.
func (d *Dataset) Dtype() string { return d.dtype }

// Shape returns a copy of the array shape. Scalars have a nil shape.
func (d *Dataset) Shape() []int {
	if d.shape == nil {
		return nil
	}
	out := make([]int, len(d.shape))
	copy(out, d.shape)
	return out
}

// Ndim returns the number of dimensions; scalars have zero.
func (d *Dataset) Ndim() int { return len(d.shape) }

// Size returns the number of stored elements. Scalars report 1.
func (d *Dataset) Size() int {
	if len(d.shape) == 0 {
		if d.IsNumeric() {
			return min(len(d.nums), 1)
		}
		return min(len(d.strs), 1)
	}
	return shapeSize(d.shape)
}

// IsNumeric reports whether the dataset holds numbers rather than strings.
func (d *Dataset) IsNumeric() bool { return d.dtype != DtypeString }

// IsScalar reports whether the dataset is zero-dimensional.
func (d *Dataset) IsScalar() bool { return len(d.shape) == 0 }

// Floats returns a copy of the numeric values. Nil for string datasets.
func (d *Dataset) Floats() []float64 {
	if d.nums == nil {
		return nil
	}
	out := make([]float64, len(d.nums))
	copy(out, d.nums)
	return out
}

// Strings returns a copy of the string values. Nil for numeric datasets.
func (d *Dataset) Strings() []string {
	if d.strs == nil {
		return nil
	}
	out := make([]string, len(d.strs))
	copy(out, d.strs)
	return out
}

// Text returns the first string element of a string dataset, or "" for
// numeric and empty datasets. This is the value consulted when a dataset
// participates in identity matching.
func (d *Dataset) Text() string {
	if d.IsNumeric() || len(d.strs) == 0 {
		return ""
	}
	return d.strs[0]
}

// Value returns the dataset value for programmatic use: a float64 or
// string for scalars, a []float64 or []string copy for arrays, and nil
// for an empty dataset.
func (d *Dataset) Value() any {
	switch {
	case d.IsNumeric() && len(d.nums) == 0, !d.IsNumeric() && len(d.strs) == 0:
		return nil
	case d.IsScalar() && d.IsNumeric():
		return d.nums[0]
	case d.IsScalar():
		return d.strs[0]
	case d.IsNumeric():
		return d.Floats()
	default:
		return d.Strings()
	}
}
