package resolver

type functionKind uint8

const (
	kindNoFunction functionKind = iota
	kindFunction
	kindMethod
	kindInitializer
)

type classKind uint8

const (
	kindNoClass classKind = iota
	kindClass
	kindSubclass
)
