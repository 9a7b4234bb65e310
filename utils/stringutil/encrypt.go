/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package stringutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

// Encrypt encodes the datasource password, the key length must be 16, 24 or 32
func Encrypt(text string, key []byte) (string, error) {
	ciphertext, err := aesEncrypt([]byte(text), key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decodes a password produced by Encrypt with the same key
func Decrypt(ciphertext string, key []byte) (string, error) {
	pwdByte, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("the password base64 decode failed, error: [%v]", err)
	}
	crypt, err := aesDeCrypt(pwdByte, key)
	if err != nil {
		return "", err
	}
	return string(crypt), nil
}

func aesEncrypt(origData []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("the password cipher create failed, error: [%v]", err)
	}
	blockSize := block.BlockSize()
	origData = PKCS7Padding(origData, blockSize)
	blocMode := cipher.NewCBCEncrypter(block, key[:blockSize])
	crypted := make([]byte, len(origData))
	blocMode.CryptBlocks(crypted, origData)
	return crypted, nil
}

func aesDeCrypt(cypted []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("the password cipher create failed, error: [%v]", err)
	}
	blockSize := block.BlockSize()
	if len(cypted) == 0 || len(cypted)%blockSize != 0 {
		return nil, fmt.Errorf("the password ciphertext length [%d] is not a multiple of the block size [%d]", len(cypted), blockSize)
	}
	blockMode := cipher.NewCBCDecrypter(block, key[:blockSize])
	origData := make([]byte, len(cypted))
	blockMode.CryptBlocks(origData, cypted)
	return PKCS7UnPadding(origData, blockSize)
}

func PKCS7Padding(ciphertext []byte, blockSize int) []byte {
	padding := blockSize - len(ciphertext)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(ciphertext, padtext...)
}

func PKCS7UnPadding(origData []byte, blockSize int) ([]byte, error) {
	length := len(origData)
	if length == 0 {
		return nil, fmt.Errorf("pkcs7 origin data length can't be 0")
	}
	unpadding := int(origData[length-1])
	if unpadding == 0 || unpadding > blockSize || unpadding > length {
		return nil, fmt.Errorf("pkcs7 padding [%d] is invalid, the key may not match", unpadding)
	}
	for _, b := range origData[length-unpadding:] {
		if int(b) != unpadding {
			return nil, fmt.Errorf("pkcs7 padding [%d] is invalid, the key may not match", unpadding)
		}
	}
	return origData[:(length - unpadding)], nil
}
