package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKindInfo(t *testing.T) {
	tests := []struct {
		kind         Kind
		short        string
		language     Language
		typeID       string
		lineOriented bool
	}{
		{KindJavaLine, "Java.Line", LanguageJava, "java-line", true},
		{KindJavaMethod, "Java.Method", LanguageJava, "java-method", false},
		{KindJavaField, "Java.Field", LanguageJava, "java-field-watchpoint", false},
		{KindKotlinLine, "Kotlin.Line", LanguageKotlin, "kotlin-line", true},
		{KindKotlinFunction, "Kotlin.Function", LanguageKotlin, "kotlin-function", false},
		{KindKotlinField, "Kotlin.Field", LanguageKotlin, "kotlin-field", false},
		{KindScalaLine, "Scala.Line", LanguageScala, "scala-line", true},
		{KindPythonLine, "Python.Line", LanguagePython, "python-line", true},
	}

	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			assert.True(t, tt.kind.Known())
			assert.Equal(t, tt.short, tt.kind.String())
			assert.Equal(t, tt.language, tt.kind.Language())
			assert.Equal(t, tt.typeID, tt.kind.DefaultTypeID())
			assert.Equal(t, tt.lineOriented, tt.kind.LineOriented())
		})
	}
}

func TestUnknownKind(t *testing.T) {
	k := Kind("com.example.GoLineBreakpointType")
	assert.False(t, k.Known())
	assert.False(t, k.LineOriented())
	assert.Equal(t, "com.example.GoLineBreakpointType", k.String())
	assert.Empty(t, k.DefaultTypeID())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Python.Line")
	assert.True(t, ok)
	assert.Equal(t, KindPythonLine, k)

	k, ok = ParseKind(string(KindKotlinField))
	assert.True(t, ok)
	assert.Equal(t, KindKotlinField, k)

	_, ok = ParseKind("Go.Line")
	assert.False(t, ok)
}
