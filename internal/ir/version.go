package ir

// Version identifies the scene IR revision. It is recorded with every
// compile run so stored hashes can be interpreted after the IR or the
// compiler changes shape.
const Version = "scene-ir/v1"
