package javaparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type classpath map[string]bool

func (c classpath) HasType(name string) bool { return c[name] }

func newTestProject(t *testing.T, external TypeLookup, sources ...string) *Project {
	t.Helper()
	files := make([]*File, 0, len(sources)/2)
	for i := 0; i+1 < len(sources); i += 2 {
		f, err := ParseSource(context.Background(), sources[i], []byte(sources[i+1]))
		require.NoError(t, err)
		files = append(files, f)
	}
	p := NewProject(files, external)
	t.Cleanup(p.Close)
	return p
}

// calls returns the bindings of every top-level statement expression of the
// named method, nil entries included
func calls(t *testing.T, p *Project, qualifiedMethod string) []*MethodBinding {
	t.Helper()
	for _, m := range p.Methods() {
		if m.QualifiedName != qualifiedMethod {
			continue
		}
		var bindings []*MethodBinding
		for _, stmt := range m.Statements() {
			bindings = append(bindings, p.ResolveCall(stmt.Expr()))
		}
		return bindings
	}
	t.Fatalf("method %s not found", qualifiedMethod)
	return nil
}

func TestResolveTypeName(t *testing.T) {
	p := newTestProject(t, classpath{"org.junit.Assert": true, "java.util.List": true},
		"a/Foo.java", `package a;

import java.util.*;
import org.junit.Assert;
import static org.hamcrest.Matchers.is;

public class Foo {
    static class Inner {}
}
`,
		"a/Bar.java", `package a;
class Bar {}
`,
		"b/Guess.java", `package b;
import lib.*;
class Guess {}
`,
	)

	foo, ok := p.Type("a.Foo")
	require.True(t, ok)
	bar, ok := p.Type("a.Bar")
	require.True(t, ok)
	guess, ok := p.Type("b.Guess")
	require.True(t, ok)

	tests := []struct {
		ctx  *TypeDecl
		name string
		want string
	}{
		{foo, "Foo", "a.Foo"},
		{foo, "Inner", "a.Foo.Inner"},
		{foo, "Foo.Inner", "a.Foo.Inner"},
		{foo, "Assert", "org.junit.Assert"},
		{foo, "Bar", "a.Bar"},
		{foo, "List<String>", "java.util.List"},
		{foo, "String[]", "java.lang.String"},
		{foo, "int", ""},
		{foo, "var", ""},
		{bar, "Unknown", ""},
		{foo, "Unknown", "java.util.Unknown"},
		{foo, "org.example.Thing", "org.example.Thing"},
		{guess, "Widget", "lib.Widget"},
		{guess, "org.example.Thing", "org.example.Thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ResolveTypeName(tt.ctx, tt.name))
		})
	}
}

func TestResolveAnnotationNames(t *testing.T) {
	p := newTestProject(t, nil, "T.java", `package a;

import org.junit.Test;
import org.junit.jupiter.api.*;

class T {
    @Test void one() {}
    @org.testng.annotations.Test void two() {}
    @Override public String toString() { return ""; }
}
`)
	methods := p.Methods()
	require.Len(t, methods, 3)
	assert.Equal(t, "org.junit.Test", methods[0].Annotations[0].QualifiedName)
	assert.Equal(t, "org.testng.annotations.Test", methods[1].Annotations[0].QualifiedName)
	assert.Equal(t, "java.lang.Override", methods[2].Annotations[0].QualifiedName)
}

const loginPageSource = `package com.example.pages;

public class LoginPage extends BasePage {
    public LoginPage(String url) {}

    public LoginPage open(String path) { return this; }

    public void login(String user, String password) {}

    public static LoginPage create() { return new LoginPage("x"); }
}
`

const basePageSource = `package com.example.pages;

import org.openqa.selenium.WebDriver;

public abstract class BasePage extends ExternalBase {
    protected WebDriver driver;

    protected void waitFor(int millis) {}
}
`

func TestResolveCallReceivers(t *testing.T) {
	p := newTestProject(t, classpath{"com.example.pages.ExternalBase": true},
		"LoginPage.java", loginPageSource,
		"BasePage.java", basePageSource,
		"LoginTest.java", `package com.example;

import com.example.pages.LoginPage;
import java.util.List;

public class LoginTest {
    private LoginPage field;

    void flow(LoginPage param) {
        LoginPage page = new LoginPage("http://localhost");
        page.open("/login").login("alice", "secret");
        param.login("a", "b");
        field.open("/");
        this.field.open("/");
        LoginPage.create();
        var inferred = LoginPage.create();
        inferred.open("/");
        ((LoginPage) param).open("/");
        page.waitFor(10);
        page.driver.get("/");
        page.inheritedFromOutside();
        "text".trim();
        for (LoginPage each : List.of(page)) {
            each.open("/");
        }
        nobody.call();
        new StringBuilder();
    }
}
`)

	b := calls(t, p, "com.example.LoginTest.flow")
	require.Len(t, b, 16)

	key := func(i int) string {
		require.NotNil(t, b[i], "statement %d", i)
		return b[i].Key
	}

	assert.Equal(t, "com.example.pages.LoginPage.LoginPage(String)", key(0))
	assert.Equal(t, "com.example.pages.LoginPage.login(String,String)", key(1))
	assert.Equal(t, "com.example.pages.LoginPage.login(String,String)", key(2))
	assert.Equal(t, "com.example.pages.LoginPage.open(String)", key(3))
	assert.Equal(t, "com.example.pages.LoginPage.open(String)", key(4))
	assert.Equal(t, "com.example.pages.LoginPage.create()", key(5))
	assert.Equal(t, "com.example.pages.LoginPage.create()", key(6))
	assert.Equal(t, "com.example.pages.LoginPage.open(String)", key(7))
	assert.Equal(t, "com.example.pages.LoginPage.open(String)", key(8))

	// Inherited from a source superclass
	assert.Equal(t, "com.example.pages.BasePage.waitFor(int)", key(9))
	assert.Equal(t, "com.example.pages.BasePage", b[9].DeclaringType)

	// External receivers bind without a key
	require.NotNil(t, b[10])
	assert.Equal(t, "org.openqa.selenium.WebDriver.get", b[10].QualifiedName())
	assert.Empty(t, b[10].Key)
	assert.Nil(t, b[10].Decl)

	require.NotNil(t, b[11])
	assert.Equal(t, "com.example.pages.ExternalBase.inheritedFromOutside", b[11].QualifiedName())

	require.NotNil(t, b[12])
	assert.Equal(t, "java.lang.String.trim", b[12].QualifiedName())

	// The enhanced for statement has no expression of its own
	assert.Nil(t, b[13])

	assert.Nil(t, b[14], "unknown receiver has no binding")

	require.NotNil(t, b[15])
	assert.Equal(t, "java.lang.StringBuilder.StringBuilder", b[15].QualifiedName())
}

func TestResolveUnqualifiedCalls(t *testing.T) {
	p := newTestProject(t, nil,
		"Util.java", `package com.example;
public class Util {
    public static void helper() {}
}
`,
		"Base.java", `package com.example;
public class Base {
    protected void inherited() {}
}
`,
		"FooTest.java", `package com.example;

import static org.junit.Assert.assertEquals;
import static com.example.Util.*;
import static org.hamcrest.Matchers.*;

public class FooTest extends Base {
    void run() {
        local();
        inherited();
        assertEquals(1, 1);
        helper();
        closeTo(1.0, 0.1);
        Runnable r = () -> local();
    }

    void local() {}

    class Nested {
        void inner() {
            local();
        }
    }
}
`,
		"Ambiguous.java", `package com.example;

import static org.hamcrest.Matchers.*;

public class Ambiguous extends org.external.Base {
    void run() {
        closeTo(1.0, 0.1);
    }
}
`,
	)

	b := calls(t, p, "com.example.FooTest.run")
	require.Len(t, b, 6)
	assert.Equal(t, "com.example.FooTest.local()", b[0].Key)
	assert.Equal(t, "com.example.Base.inherited()", b[1].Key)
	assert.Equal(t, "org.junit.Assert.assertEquals", b[2].QualifiedName())
	assert.Equal(t, "com.example.Util.helper()", b[3].Key)
	require.NotNil(t, b[4])
	assert.Equal(t, "org.hamcrest.Matchers.closeTo", b[4].QualifiedName())
	assert.Nil(t, b[5], "lambda initializer is not a call")

	inner := calls(t, p, "com.example.FooTest.Nested.inner")
	require.Len(t, inner, 1)
	assert.Equal(t, "com.example.FooTest.local()", inner[0].Key)

	ambiguous := calls(t, p, "com.example.Ambiguous.run")
	require.Len(t, ambiguous, 1)
	require.NotNil(t, ambiguous[0], "external superclass and static import both could declare it")
	assert.Empty(t, ambiguous[0].DeclaringType)
	assert.Equal(t, []string{"org.external.Base", "org.hamcrest.Matchers"}, ambiguous[0].Candidates)
	assert.Equal(t, []string{"org.external.Base.closeTo", "org.hamcrest.Matchers.closeTo"}, ambiguous[0].QualifiedNames())
}

func TestResolveOverloads(t *testing.T) {
	p := newTestProject(t, nil, "Steps.java", `package a;

public class Steps {
    void run(String name, int count, Object any) {
        step(name);
        step(count);
        step(3L);
        step(null);
        step(true);
        step('c');
        step(1.5);
        step(any);
        step("a", "b", "c");
        step();
        new Steps(1);
        new Steps();
    }

    Steps(int n) {}
    Steps(String s) {}

    void step(String s) {}
    void step(int i) {}
    void step(long l) {}
    void step(boolean b) {}
    void step(Object o) {}
    void step(String first, String... rest) {}
}
`)

	b := calls(t, p, "a.Steps.run")
	require.Len(t, b, 12)
	want := []string{
		"a.Steps.step(String)",
		"a.Steps.step(int)",
		"a.Steps.step(long)",
		"a.Steps.step(String)",
		"a.Steps.step(boolean)",
		"a.Steps.step(int)",
		"a.Steps.step(Object)",
		"a.Steps.step(Object)",
		"a.Steps.step(String,String[])",
		"",
		"a.Steps.Steps(int)",
		"",
	}
	for i, w := range want {
		if w == "" {
			continue
		}
		require.NotNil(t, b[i], "statement %d", i)
		assert.Equal(t, w, b[i].Key, "statement %d", i)
	}

	assert.Nil(t, b[9], "no step overload takes zero arguments")

	// No zero-argument constructor declared
	require.NotNil(t, b[11])
	assert.Empty(t, b[11].Key)
	assert.Equal(t, "a.Steps.Steps", b[11].QualifiedName())
}

func TestResolveDefaultConstructor(t *testing.T) {
	p := newTestProject(t, nil, "A.java", `package a;
class A {
    void run() {
        new A();
    }
}
`)
	b := calls(t, p, "a.A.run")
	require.Len(t, b, 1)
	require.NotNil(t, b[0])
	assert.Equal(t, "a.A.A()", b[0].Key)
	assert.Nil(t, b[0].Decl)
}
