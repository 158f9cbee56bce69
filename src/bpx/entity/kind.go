// Package entity contains the domain types of the breakpoint exchange.
package entity

// Language is a source language that contributes breakpoint kinds.
type Language string

// Supported languages.
const (
	LanguageJava   Language = "java"
	LanguageKotlin Language = "kotlin"
	LanguageScala  Language = "scala"
	LanguagePython Language = "python"
)

// Kind is the discriminator of a concrete breakpoint implementation.
// The value is the fully qualified debugger type name, which keeps exported files
// readable by the IDE plugin that defined the format.
type Kind string

// Supported kinds.
const (
	KindJavaLine       Kind = "com.intellij.debugger.ui.breakpoints.JavaLineBreakpointType"
	KindJavaMethod     Kind = "com.intellij.debugger.ui.breakpoints.JavaMethodBreakpointType"
	KindJavaField      Kind = "com.intellij.debugger.ui.breakpoints.JavaFieldBreakpointType"
	KindKotlinLine     Kind = "org.jetbrains.kotlin.idea.debugger.breakpoints.KotlinLineBreakpointType"
	KindKotlinFunction Kind = "org.jetbrains.kotlin.idea.debugger.breakpoints.KotlinFunctionBreakpointType"
	KindKotlinField    Kind = "org.jetbrains.kotlin.idea.debugger.breakpoints.KotlinFieldBreakpointType"
	KindScalaLine      Kind = "org.jetbrains.plugins.scala.debugger.breakpoints.ScalaLineBreakpointType"
	KindPythonLine     Kind = "com.jetbrains.python.debugger.PyLineBreakpointType"
)

type kindInfo struct {
	short        string
	language     Language
	typeID       string
	lineOriented bool
}

var _kinds = map[Kind]kindInfo{
	KindJavaLine:       {short: "Java.Line", language: LanguageJava, typeID: "java-line", lineOriented: true},
	KindJavaMethod:     {short: "Java.Method", language: LanguageJava, typeID: "java-method"},
	KindJavaField:      {short: "Java.Field", language: LanguageJava, typeID: "java-field-watchpoint"},
	KindKotlinLine:     {short: "Kotlin.Line", language: LanguageKotlin, typeID: "kotlin-line", lineOriented: true},
	KindKotlinFunction: {short: "Kotlin.Function", language: LanguageKotlin, typeID: "kotlin-function"},
	KindKotlinField:    {short: "Kotlin.Field", language: LanguageKotlin, typeID: "kotlin-field"},
	KindScalaLine:      {short: "Scala.Line", language: LanguageScala, typeID: "scala-line", lineOriented: true},
	KindPythonLine:     {short: "Python.Line", language: LanguagePython, typeID: "python-line", lineOriented: true},
}

// Known reports whether the kind belongs to the closed set of kinds this module understands.
func (k Kind) Known() bool {
	_, ok := _kinds[k]
	return ok
}

// String implements fmt.Stringer with the short form, e.g. Java.Line.
func (k Kind) String() string {
	if info, ok := _kinds[k]; ok {
		return info.short
	}
	return string(k)
}

// Language returns the source language that owns the kind.
func (k Kind) Language() Language {
	return _kinds[k].language
}

// DefaultTypeID returns the debugger type identifier registered for the kind.
func (k Kind) DefaultTypeID() string {
	return _kinds[k].typeID
}

// LineOriented reports whether breakpoints of this kind are found by file and line.
// Only line oriented kinds take part in conflict detection on import.
func (k Kind) LineOriented() bool {
	return _kinds[k].lineOriented
}

// ParseKind accepts either a fully qualified discriminator or its short form.
func ParseKind(s string) (Kind, bool) {
	if k := Kind(s); k.Known() {
		return k, true
	}
	for k, info := range _kinds {
		if info.short == s {
			return k, true
		}
	}
	return "", false
}
