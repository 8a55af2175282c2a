package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-gost2/gost2file/gost2"
	"github.com/go-gost2/gost2file/gostcbc"
	"github.com/go-gost2/gost2file/internal"
)

func logf(f string, v ...interface{}) {
	if config.Verbose {
		log.Printf(f, v...)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-verbose] c|encrypt|d|decrypt FILE...\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on success, 1 on usage or open
// errors, 2 on operation failure. It is separate from main so that the
// deferred key wipe runs before os.Exit.
func run() int {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		return 1
	}

	var encrypt bool
	switch args[0] {
	case "c", "encrypt":
		encrypt = true
	case "d", "decrypt":
	default:
		usage()
		return 1
	}

	password, err := promptPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		return 1
	}

	ciph := gost2.NewCipher(password)
	zeroize(password)
	defer ciph.Zero()

	for _, inpath := range args[1:] {
		if code := processFile(ciph, encrypt, inpath); code != 0 {
			return code
		}
	}
	return 0
}

// processFile encrypts or decrypts a single file, deriving the output name
// from the input name. A failed operation removes its partial output.
func processFile(ciph *gost2.Cipher, encrypt bool, inpath string) int {
	var outpath string
	if encrypt {
		outpath = encryptName(inpath)
	} else {
		outpath = decryptName(inpath)
	}

	fin, err := os.Open(inpath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open input '%s': %v\n", inpath, err)
		return 1
	}
	defer fin.Close()

	fout, err := os.Create(outpath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create output '%s': %v\n", outpath, err)
		return 1
	}

	var authOK bool
	if encrypt {
		err = encryptFile(fin, fout, ciph)
	} else {
		authOK, err = decryptFile(fin, fout, ciph)
	}
	if cerr := fout.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Operation failed due to an error.")
		os.Remove(outpath) // best-effort removal of the partial output
		return 2
	}

	if encrypt {
		fmt.Printf("Encryption completed. Output: %s\n", outpath)
	} else {
		fmt.Printf("Decryption completed. Output: %s\n", outpath)
		if authOK {
			fmt.Println("Authentication OK")
		} else {
			fmt.Println("Authentication FAILED")
		}
	}
	return 0
}

func encryptFile(fin io.Reader, fout io.Writer, ciph *gost2.Cipher) error {
	iv := generateIV()
	if internal.TestIV(iv[:]) {
		logf("IV %x already seen in this session", iv)
	}
	internal.AddIV(iv[:])

	w, err := gostcbc.NewWriter(fout, ciph, iv[:])
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, fin); err != nil {
		return err
	}
	return w.Close()
}

func decryptFile(fin io.ReadSeeker, fout io.Writer, ciph *gost2.Cipher) (bool, error) {
	r, err := gostcbc.NewReader(fin, ciph)
	if err != nil {
		return false, err
	}

	// a repeated IV under the same password is worth flagging
	if iv := r.IV(); internal.TestIV(iv) {
		logf("IV %x already seen in this session", iv)
	} else {
		internal.AddIV(iv)
	}

	if _, err := io.Copy(fout, r); err != nil {
		return false, err
	}
	return r.Verified(), nil
}
