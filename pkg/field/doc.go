// Package field implements TextField, a container that coordinates focus,
// dirty, error and required state between an input-like child and a
// label-like child without either child knowing about the other.
//
// Children are classified by capability tag. Input children get their class
// merged with the container's input class and their focus, blur, dirty and
// clean handlers chained behind the container's own transitions. Label
// children get class, error, required and shrink derived from the container
// unless they set those props themselves. Every other child passes through.
package field
