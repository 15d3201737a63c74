package ooo_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOOO(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OOO Datapath Suite")
}
