package integrations_test

import (
	"fmt"

	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
)

func ExampleNormalizePkgName() {
	// Package names are normalized following PEP 503
	fmt.Println(integrations.NormalizePkgName("BeautifulSoup"))
	fmt.Println(integrations.NormalizePkgName("my_package"))
	fmt.Println(integrations.NormalizePkgName("zope.interface"))
	// Output:
	// beautifulsoup
	// my-package
	// zope-interface
}

func ExampleNormalizeRepoURL() {
	fmt.Println(integrations.NormalizeRepoURL("git@github.com:nose-devs/nose.git"))
	fmt.Println(integrations.NormalizeRepoURL("git+https://github.com/psf/requests.git"))
	// Output:
	// https://github.com/nose-devs/nose
	// https://github.com/psf/requests
}

func Example_errors() {
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNotFound: resource not found
	// ErrNetwork: network error
}
